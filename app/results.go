package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// ResultSet is the wire form of one half of a query response. The keys
// and the values of the found models travel as two sets of equal length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results" json:"results,omitempty"`
}

func (m *ResultSet) Marshal() ([]byte, error)  { return proto.Marshal((*resultSetWire)(m)) }
func (m *ResultSet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*resultSetWire)(m)) }

type resultSetWire ResultSet

func (m *resultSetWire) Reset()         { *m = resultSetWire{} }
func (m *resultSetWire) String() string { return proto.CompactTextString(m) }
func (*resultSetWire) ProtoMessage()    {}

func collect(models []weave.Model, field func(weave.Model) []byte) *ResultSet {
	set := ResultSet{Results: make([][]byte, 0, len(models))}
	for _, m := range models {
		set.Results = append(set.Results, field(m))
	}
	return &set
}

func ResultsFromKeys(models []weave.Model) *ResultSet {
	return collect(models, func(m weave.Model) []byte { return m.Key })
}

func ResultsFromValues(models []weave.Model) *ResultSet {
	return collect(models, func(m weave.Model) []byte { return m.Value })
}

// JoinResults pairs the keys and values of a query response back into
// models.
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(keys.Results), len(values.Results))
	}
	models := make([]weave.Model, 0, len(keys.Results))
	for i, k := range keys.Results {
		models = append(models, weave.Pair(k, values.Results[i]))
	}
	return models, nil
}
