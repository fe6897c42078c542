package cmd

import (
	"flag"
	"slices"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/flexquery"
	"github.com/etnz/flexquery/date"
	"github.com/etnz/flexquery/docs"
)

// Completion returns the shell completion of the application: the global
// flags, and the flags and arguments of every subcommand.
func Completion() *complete.Command {
	reports := predict.Files("*.xml")
	topics, _ := docs.All()
	codes := append(flexquery.DefaultActivityCodes().Codes(), flexquery.CodeOtherFee, flexquery.CodeWithholdingTax)
	slices.Sort(codes)

	args := map[string]complete.Predictor{
		"download": predict.Something,
		"filter":   reports,
		"show":     reports,
		"convert":  reports,
		"records":  reports,
		"topic":    predict.Set(append(topics, docs.Index)),
	}
	values := map[string]complete.Predictor{
		"config":  predict.Files("*.yaml"),
		"o":       predict.Files("*"),
		"exclude": predict.Set(slices.Compact(codes)),
		"period":  predict.Set(date.Periods),
	}

	root := &complete.Command{
		Flags: map[string]complete.Predictor{
			"v":      predict.Nothing,
			"config": values["config"],
		},
		Sub: map[string]*complete.Command{},
	}
	for _, c := range Commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}, Args: args[c.Name()]}
		fs.VisitAll(func(fl *flag.Flag) {
			switch {
			case isBool(fl):
				sub.Flags[fl.Name] = predict.Nothing
			case values[fl.Name] != nil:
				sub.Flags[fl.Name] = values[fl.Name]
			default:
				sub.Flags[fl.Name] = predict.Something
			}
		})
		root.Sub[c.Name()] = sub
	}
	return root
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
