package main

import (
	"github.com/lehigh-university-libraries/bibfield/cmd"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/bibfield/format/bibtex"
	_ "github.com/lehigh-university-libraries/bibfield/format/csv"
	_ "github.com/lehigh-university-libraries/bibfield/format/json"
)

func main() {
	cmd.Execute()
}
