package props

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Casers are stateful, so lookups borrow one from a pool rather than
// sharing a package global.
var foldPool = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

// FoldKey normalizes a property name with Unicode case folding, the
// canonical form used for every bag lookup.
func FoldKey(key string) string {
	c := foldPool.Get().(*cases.Caser)
	folded := c.String(key)
	foldPool.Put(c)
	return folded
}

type slot struct {
	key string // spelling as last written, kept for serialization
	val Value
}

// Bag is an insertion-ordered, case-insensitive property map. The zero
// value is usable.
type Bag struct {
	slots []slot
	index map[string]int
}

func NewBag() Bag {
	return Bag{}
}

// Of builds a bag from alternating name/value pairs, a convenience for
// tests and the registry's default blocks.
func Of(pairs ...any) Bag {
	if len(pairs)%2 != 0 {
		panic("props: Of requires name/value pairs")
	}
	b := NewBag()
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("props: Of pair %d is not a string name", i))
		}
		b.Set(name, FromAny(pairs[i+1]))
	}
	return b
}

func (b *Bag) ensure() {
	if b.index == nil {
		b.index = make(map[string]int)
	}
}

// Set writes a value under the folded key. Re-setting with a different
// spelling keeps the slot position but adopts the new spelling.
func (b *Bag) Set(key string, v Value) {
	b.ensure()
	folded := FoldKey(key)
	if i, ok := b.index[folded]; ok {
		b.slots[i] = slot{key: key, val: v}
		return
	}
	b.index[folded] = len(b.slots)
	b.slots = append(b.slots, slot{key: key, val: v})
}

// Get returns the stored value, or Absent when the name (under folding)
// was never set.
func (b Bag) Get(key string) Value {
	if b.index == nil {
		return Absent()
	}
	if i, ok := b.index[FoldKey(key)]; ok {
		return b.slots[i].val
	}
	return Absent()
}

func (b Bag) Has(key string) bool {
	if b.index == nil {
		return false
	}
	_, ok := b.index[FoldKey(key)]
	return ok
}

func (b *Bag) Delete(key string) {
	if b.index == nil {
		return
	}
	folded := FoldKey(key)
	i, ok := b.index[folded]
	if !ok {
		return
	}
	b.slots = append(b.slots[:i], b.slots[i+1:]...)
	delete(b.index, folded)
	for k, j := range b.index {
		if j > i {
			b.index[k] = j - 1
		}
	}
}

func (b Bag) Len() int {
	return len(b.slots)
}

// IsZero reports an empty bag. yaml consults this for omitempty, which
// otherwise treats any struct without public fields as zero.
func (b Bag) IsZero() bool {
	return len(b.slots) == 0
}

// Keys returns the stored spellings in insertion order.
func (b Bag) Keys() []string {
	keys := make([]string, len(b.slots))
	for i, s := range b.slots {
		keys[i] = s.key
	}
	return keys
}

func (b Bag) Range(fn func(key string, v Value) bool) {
	for _, s := range b.slots {
		if !fn(s.key, s.val) {
			return
		}
	}
}

func (b Bag) Clone() Bag {
	out := Bag{}
	for _, s := range b.slots {
		out.Set(s.key, s.val)
	}
	return out
}

// ToMap lowers the bag into a plain dynamic map, losing order; used to
// seed expression environments.
func (b Bag) ToMap() map[string]any {
	m := make(map[string]any, len(b.slots))
	for _, s := range b.slots {
		m[s.key] = s.val.ToAny()
	}
	return m
}

// MarshalJSON writes an object in insertion order with the stored
// spellings, so a save/load cycle reproduces the authored document.
func (b Bag) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, s := range b.slots {
		if i > 0 {
			sb.WriteByte(',')
		}
		name, err := json.Marshal(s.key)
		if err != nil {
			return nil, err
		}
		sb.Write(name)
		sb.WriteByte(':')
		val, err := json.Marshal(s.val)
		if err != nil {
			return nil, err
		}
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// UnmarshalJSON streams object tokens so the document order survives the
// round trip; generic map decoding would scramble it.
func (b *Bag) UnmarshalJSON(data []byte) error {
	*b = Bag{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("props: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("props: expected string key, got %v", keyTok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		b.Set(key, FromAny(raw))
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}
	return nil
}

// MarshalYAML emits an ordered mapping node mirroring the JSON form.
func (b Bag) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range b.slots {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: s.key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(s.val.ToAny()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func (b *Bag) UnmarshalYAML(value *yaml.Node) error {
	*b = Bag{}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("props: expected mapping, got yaml kind %d", value.Kind)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		var raw any
		if err := valNode.Decode(&raw); err != nil {
			return err
		}
		b.Set(keyNode.Value, FromAny(raw))
	}
	return nil
}
