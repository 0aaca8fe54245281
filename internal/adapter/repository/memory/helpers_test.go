package memory

import "github.com/iho/cajaledger/internal/usecase"

func usecaseTarget(kind, id string) usecase.RecalcTarget {
	return usecase.RecalcTarget{Kind: kind, ID: id}
}

func targetStrings(targets []usecase.RecalcTarget) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.String())
	}
	return out
}
