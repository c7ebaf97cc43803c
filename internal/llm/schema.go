package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds one compiled schema per Schema.Name.
var compiled sync.Map

// Validate checks raw against schema and returns a KindInvalidOutput
// *Error when it does not conform. A nil schema accepts anything.
func Validate(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &Error{Kind: KindInvalidOutput, Content: raw, Err: fmt.Errorf("decode reply: %w", err)}
	}
	sch, err := compile(schema)
	if err != nil {
		return &Error{Kind: KindInvalidOutput, Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &Error{Kind: KindInvalidOutput, Content: raw, Err: fmt.Errorf("schema %s: %w", schema.Name, err)}
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go maps with typed slices.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", schema.Name, err)
	}
	var def any
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}
	compiled.Store(schema.Name, s)
	return s, nil
}
