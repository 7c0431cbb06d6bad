package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type VarType int

const (
	UnsetVariableType VarType = iota // Identifier seen by the tokenizer, not declared yet.
	IntVariableType
	FloatVariableType
)

func (t VarType) String() string {
	switch t {
	case IntVariableType:
		return "int"
	case FloatVariableType:
		return "float"
	}
	return ""
}

func (t VarType) MarshalJSON() ([]byte, error) {
	if t == UnsetVariableType {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func varTypeOf(keyword string) (VarType, bool) {
	switch keyword {
	case "int":
		return IntVariableType, true
	case "float":
		return FloatVariableType, true
	}
	return UnsetVariableType, false
}

type SymbolDesc struct {
	name         string
	variableType VarType
	initialized  bool
}

func (desc *SymbolDesc) Type() VarType {
	return desc.variableType
}

func (desc *SymbolDesc) Initialized() bool {
	return desc.initialized
}

// SymbolTable maps variable names to their descriptions. There is a single scope per
// program. Names keep the order in which they were first inserted.
type SymbolTable struct {
	names   []string
	symbols map[string]*SymbolDesc
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*SymbolDesc{}}
}

func (table *SymbolTable) lookUp(name string) *SymbolDesc {
	return table.symbols[name]
}

func (table *SymbolTable) insert(desc *SymbolDesc) {
	table.names = append(table.names, desc.name)
	table.symbols[desc.name] = desc
}

// touch inserts an unset entry for name unless it already exists.
func (table *SymbolTable) touch(name string) {
	if table.lookUp(name) != nil {
		return
	}
	table.insert(&SymbolDesc{name: name})
}

// declare adds name with type tp. It returns false, leaving the existing entry untouched,
// when name is already present.
func (table *SymbolTable) declare(name string, tp VarType) bool {
	if table.lookUp(name) != nil {
		return false
	}
	table.insert(&SymbolDesc{name: name, variableType: tp})
	return true
}

// LookUp returns the description of name, or nil when it is unknown.
func (table *SymbolTable) LookUp(name string) *SymbolDesc {
	return table.lookUp(name)
}

func (table *SymbolTable) Names() []string {
	return append([]string(nil), table.names...)
}

func (table *SymbolTable) Len() int {
	return len(table.names)
}

func (table *SymbolTable) String() string {
	parts := make([]string, 0, len(table.names))
	for _, name := range table.names {
		desc := table.symbols[name]
		tp := desc.variableType.String()
		if tp == "" {
			tp = "unset"
		}
		parts = append(parts, fmt.Sprintf("%s: {type: %s, initialized: %t}", name, tp, desc.initialized))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON writes the table as an object in insertion order. Variables carry no runtime
// value at compile time, so "value" is always null.
func (table *SymbolTable) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, name := range table.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		desc := table.symbols[name]
		entry, err := json.Marshal(struct {
			Type        VarType     `json:"type"`
			Value       interface{} `json:"value"`
			Initialized bool        `json:"initialized"`
		}{Type: desc.variableType, Initialized: desc.initialized})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
