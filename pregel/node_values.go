package pregel

import (
	"math"

	"github.com/rs/zerolog/log"
)

type column struct {
	element      Element
	longs        []int64
	doubles      []float64
	longArrays   *arrayColumn[int64]
	doubleArrays *arrayColumn[float64]
}

// NodeValues is the columnar store of the per-vertex values declared by a Schema.
// Writes to different node ids may run concurrently; a node id is written by one worker at a time.
type NodeValues struct {
	schema    *Schema
	nodeCount int
	columns   []column
}

func NewNodeValues(schema *Schema, nodeCount int) (*NodeValues, error) {
	if err := schema.Err(); err != nil {
		return nil, err
	}
	nv := &NodeValues{schema: schema, nodeCount: nodeCount, columns: make([]column, schema.Len())}
	for i, element := range schema.Elements() {
		c := &nv.columns[i]
		c.element = element
		switch element.Type {
		case LONG:
			c.longs = make([]int64, nodeCount)
			if def := element.Default.(int64); def != 0 {
				for j := range c.longs {
					c.longs[j] = def
				}
			}
		case DOUBLE:
			c.doubles = make([]float64, nodeCount)
			if def := element.Default.(float64); def != 0 || math.Signbit(def) {
				for j := range c.doubles {
					c.doubles[j] = def
				}
			}
		case LONG_ARRAY:
			c.longArrays = newArrayColumn[int64](nodeCount)
		case DOUBLE_ARRAY:
			c.doubleArrays = newArrayColumn[float64](nodeCount)
		}
	}
	return nv, nil
}

func (nv *NodeValues) Schema() *Schema {
	return nv.schema
}

func (nv *NodeValues) NodeCount() int {
	return nv.nodeCount
}

func (nv *NodeValues) column(key string, valueType ValueType) *column {
	offset, ok := nv.schema.offsets[key]
	if !ok {
		log.Panic().Msg("Unknown node value key: " + key + " in schema " + nv.schema.String())
	}
	c := &nv.columns[offset]
	if c.element.Type != valueType {
		log.Panic().Msg("Node value " + key + " is " + c.element.Type.String() + ", not " + valueType.String())
	}
	return c
}

func (nv *NodeValues) Long(key string, nodeId uint32) int64 {
	return nv.column(key, LONG).longs[nodeId]
}

func (nv *NodeValues) SetLong(key string, nodeId uint32, value int64) {
	nv.column(key, LONG).longs[nodeId] = value
}

func (nv *NodeValues) Double(key string, nodeId uint32) float64 {
	return nv.column(key, DOUBLE).doubles[nodeId]
}

func (nv *NodeValues) SetDouble(key string, nodeId uint32, value float64) {
	nv.column(key, DOUBLE).doubles[nodeId] = value
}

// LongArray returns the stored array of nodeId. The slice aliases the store; copy it to keep it past a write.
func (nv *NodeValues) LongArray(key string, nodeId uint32) []int64 {
	return nv.column(key, LONG_ARRAY).longArrays.entries[nodeId]
}

// SetLongArray copies values into the store.
func (nv *NodeValues) SetLongArray(key string, nodeId uint32, values []int64) {
	nv.column(key, LONG_ARRAY).longArrays.set(nodeId, values)
}

// DoubleArray returns the stored array of nodeId. The slice aliases the store; copy it to keep it past a write.
func (nv *NodeValues) DoubleArray(key string, nodeId uint32) []float64 {
	return nv.column(key, DOUBLE_ARRAY).doubleArrays.entries[nodeId]
}

// SetDoubleArray copies values into the store.
func (nv *NodeValues) SetDoubleArray(key string, nodeId uint32, values []float64) {
	nv.column(key, DOUBLE_ARRAY).doubleArrays.set(nodeId, values)
}

// LongProperties returns the whole column of key, indexed by node id.
func (nv *NodeValues) LongProperties(key string) []int64 {
	return nv.column(key, LONG).longs
}

// DoubleProperties returns the whole column of key, indexed by node id.
func (nv *NodeValues) DoubleProperties(key string) []float64 {
	return nv.column(key, DOUBLE).doubles
}

// Snapshot returns a read-only view of the public values. It shares storage with the store.
func (nv *NodeValues) Snapshot() Snapshot {
	public := NewSchema()
	view := &NodeValues{schema: public, nodeCount: nv.nodeCount}
	for _, c := range nv.columns {
		if c.element.Visibility == PUBLIC {
			public.offsets[c.element.Key] = len(public.elements)
			public.elements = append(public.elements, c.element)
			view.columns = append(view.columns, c)
		}
	}
	return Snapshot{values: view}
}

// Approximate bytes held, including arena pages.
func (nv *NodeValues) memoryUsage() (n int) {
	for i := range nv.columns {
		c := &nv.columns[i]
		switch c.element.Type {
		case LONG, DOUBLE:
			n += nv.nodeCount * 8
		case LONG_ARRAY:
			n += nv.nodeCount*SLICE_HEADER_BYTES + c.longArrays.arena.reserved()
		case DOUBLE_ARRAY:
			n += nv.nodeCount*SLICE_HEADER_BYTES + c.doubleArrays.arena.reserved()
		}
	}
	return n
}

func (nv *NodeValues) release() {
	for i := range nv.columns {
		c := &nv.columns[i]
		if c.longArrays != nil {
			c.longArrays.arena.release()
		}
		if c.doubleArrays != nil {
			c.doubleArrays.arena.release()
		}
		*c = column{element: c.element}
	}
}

// Snapshot is the result view of a run: the public node values, read only.
type Snapshot struct {
	values *NodeValues
}

func (s Snapshot) Schema() *Schema                          { return s.values.schema }
func (s Snapshot) NodeCount() int                           { return s.values.nodeCount }
func (s Snapshot) Long(key string, nodeId uint32) int64     { return s.values.Long(key, nodeId) }
func (s Snapshot) Double(key string, nodeId uint32) float64 { return s.values.Double(key, nodeId) }
func (s Snapshot) LongArray(key string, nodeId uint32) []int64 {
	return s.values.LongArray(key, nodeId)
}
func (s Snapshot) DoubleArray(key string, nodeId uint32) []float64 {
	return s.values.DoubleArray(key, nodeId)
}
func (s Snapshot) LongProperties(key string) []int64     { return s.values.LongProperties(key) }
func (s Snapshot) DoubleProperties(key string) []float64 { return s.values.DoubleProperties(key) }

func (s Snapshot) HasKey(key string) bool {
	_, ok := s.values.schema.offsets[key]
	return ok
}
