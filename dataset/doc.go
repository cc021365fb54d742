// Package dataset loads, generates and rescales examples.
//
// CSV files need a header row. One column may hold example names and one
// an optional label; the rest, or an explicit selection, are parsed as
// float64 features.
//
//	examples, err := dataset.LoadCSV(f, dataset.Options{NameColumn: "name", LabelColumn: "class"})
//	scaled, err := dataset.ZScale(examples)
package dataset
