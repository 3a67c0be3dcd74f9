package roster

import (
	"strconv"
	"strings"
)

// The roster commands accept small batch grammars.
//
//	add:    "name[, name 2, other name]" (comma-separated names, each
//	        optionally followed by a 1-based candidate index)
//	remove: "1, 3-5, 7..9" (comma-separated 1-based indices and
//	        inclusive ranges with either separator)
//
// Both are tokenized here into typed results so every token can be
// reported individually instead of failing the whole batch.

type AddSpec struct {
	// the spec as the user wrote it, for reporting
	Raw string
	// entity name with any trailing index stripped
	Name string
	// 1-based choice among duplicate-name candidates
	Index    int
	HasIndex bool
}

func ParseAddSpecs(raw string) []AddSpec {
	var specs []AddSpec
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		spec := AddSpec{Raw: token, Name: token}
		fields := strings.Fields(token)
		if len(fields) > 1 {
			if index, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
				spec.Name = strings.Join(fields[:len(fields)-1], " ")
				spec.Index = index
				spec.HasIndex = true
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

type RemoveToken struct {
	Raw string
	// inclusive 1-based bounds; a single index has Start == End
	Start int
	End   int
	// false when the token did not parse as an index or range
	Parsed bool
}

func ParseRemoveTokens(raw string) []RemoveToken {
	var tokens []RemoveToken
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tokens = append(tokens, parseRemoveToken(token))
	}
	return tokens
}

func parseRemoveToken(token string) RemoveToken {
	out := RemoveToken{Raw: token}

	var left, right string
	var isRange bool
	if l, r, ok := strings.Cut(token, ".."); ok {
		left, right, isRange = l, r, true
	} else if l, r, ok := strings.Cut(token, "-"); ok {
		left, right, isRange = l, r, true
	}

	if !isRange {
		index, err := strconv.Atoi(token)
		if err != nil {
			return out
		}
		out.Start, out.End, out.Parsed = index, index, true
		return out
	}

	start, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return out
	}
	end, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return out
	}
	out.Start, out.End, out.Parsed = start, end, true
	return out
}
