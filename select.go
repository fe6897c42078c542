package flexquery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
)

// filterLanguage is JSONPath with the full set of gval operators (&&, <, ...)
// available in filters.
var filterLanguage = gval.Full(jsonpath.Language())

// Where returns the transactions matching a JSONPath filter expression
// evaluated on their JSON form, e.g. `@.type == "Dividend"` or
// `@.currency == "USD" && @.type == "Buy"`.
//
// An empty expression matches everything.
func Where(txs []Transaction, expr string) ([]Transaction, error) {
	if expr == "" {
		return txs, nil
	}
	path := "$[?(" + expr + ")]"
	eval, err := filterLanguage.NewEvaluable(path)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}

	var kept []Transaction
	for _, tx := range txs {
		obj, err := jsonValue(tx)
		if err != nil {
			return nil, err
		}
		jval, err := eval(context.Background(), []any{obj})
		if err != nil {
			return nil, fmt.Errorf("cannot evaluate %q: %w", expr, err)
		}
		// a filter always returns a list, a match is a non empty one.
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			kept = append(kept, tx)
		}
	}
	return kept, nil
}

// jsonValue returns the generic JSON value of v.
func jsonValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
