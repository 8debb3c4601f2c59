package dag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tradeflowhq/tradeflow/errors"
)

// binding is one parsed input-mapping entry.
type binding struct {
	field    string
	producer string
	key      string // empty means whole payload
	lenient  bool   // "?" suffix: fall back to whole payload when key is absent
}

// parseBinding parses a mapping source path "producerId[.outputKey][?]".
func parseBinding(field, source string) (binding, error) {
	b := binding{field: field}
	if field == "" {
		return b, errors.GraphInvalid("input mapping with empty field name")
	}
	if strings.HasSuffix(source, "?") {
		b.lenient = true
		source = strings.TrimSuffix(source, "?")
	}
	producer, key, found := strings.Cut(source, ".")
	if producer == "" || (found && key == "") {
		return b, errors.GraphInvalid(fmt.Sprintf("malformed input mapping source %q for field %q", source, field))
	}
	b.producer = producer
	b.key = key
	return b, nil
}

// BuildInput resolves a node's input payload from the recorded results of
// its producers.
//
// Root nodes (no incoming edges) receive initialInput verbatim, or an empty
// payload when none was supplied. Nodes with producers but no declared
// mapping receive an empty payload. Mapping entries resolve in field-name
// order so failures are deterministic:
//
//   - producer unrecorded or failed: the consumer fails with a missing
//     dependency error, never a silently empty payload
//   - named output field present: that single value is copied
//   - named output field absent: strict entries fail the consumer, lenient
//     ("?") entries substitute the producer's whole payload
//   - no named field: the producer's whole payload is the value
func BuildInput(node NodeDecl, producers []string, results map[string]NodeResult, initialInput Payload) (Payload, error) {
	if len(producers) == 0 {
		if initialInput != nil {
			return initialInput, nil
		}
		return Payload{}, nil
	}

	input := Payload{}
	if len(node.Inputs) == 0 {
		return input, nil
	}

	fields := make([]string, 0, len(node.Inputs))
	for field := range node.Inputs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		b, err := parseBinding(field, node.Inputs[field])
		if err != nil {
			return nil, err
		}

		rec, ok := results[b.producer]
		if !ok {
			return nil, errors.MissingDependency(node.ID, b.producer, "no recorded result")
		}
		if rec.Status != StatusSuccess {
			return nil, errors.MissingDependency(node.ID, b.producer, "producer failed")
		}

		if b.key == "" {
			input[b.field] = rec.Output
			continue
		}
		if v, present := rec.Output[b.key]; present {
			input[b.field] = v
			continue
		}
		if b.lenient {
			input[b.field] = rec.Output
			continue
		}
		return nil, errors.MissingDependency(node.ID, b.producer,
			fmt.Sprintf("output field %q absent", b.key))
	}

	return input, nil
}
