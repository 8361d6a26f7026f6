package props_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/questwright/scriptgraph/pkg/props"
)

func TestBagCaseInsensitiveLookup(t *testing.T) {
	b := props.NewBag()
	b.Set("Message", props.String("hi"))

	require.Equal(t, "hi", b.Get("MESSAGE").AsString())
	require.Equal(t, "hi", b.Get("message").AsString())
	require.Equal(t, "hi", b.Get("Message").AsString())
	require.True(t, b.Has("mEsSaGe"))
	require.Equal(t, 1, b.Len())
}

func TestBagResetSameSlot(t *testing.T) {
	b := props.NewBag()
	b.Set("Message", props.String("one"))
	b.Set("MESSAGE", props.String("two"))

	require.Equal(t, 1, b.Len())
	require.Equal(t, "two", b.Get("message").AsString())
	require.Equal(t, []string{"MESSAGE"}, b.Keys())
}

func TestValueIsSet(t *testing.T) {
	require.False(t, props.Absent().IsSet())
	require.False(t, props.Null().IsSet())
	require.False(t, props.String("").IsSet())
	require.False(t, props.String("   ").IsSet())
	require.False(t, props.String("\t\n").IsSet())
	require.True(t, props.String("x").IsSet())
	require.True(t, props.Bool(false).IsSet())
	require.True(t, props.Int(0).IsSet())
	require.True(t, props.Double(0).IsSet())
}

func TestValueCoercions(t *testing.T) {
	require.Equal(t, int64(3), props.String("3").AsInt())
	require.Equal(t, int64(3), props.Double(3.7).AsInt())
	require.Equal(t, int64(1), props.Bool(true).AsInt())
	require.True(t, props.String("true").AsBool())
	require.True(t, props.String("Yes").AsBool())
	require.False(t, props.String("no").AsBool())
	require.True(t, props.Int(2).AsBool())
	require.Equal(t, "42", props.Int(42).AsString())
	require.Equal(t, "true", props.Bool(true).AsString())
	require.InDelta(t, 2.5, props.String("2.5").AsDouble(), 1e-9)
}

func TestValueFromAnyKinds(t *testing.T) {
	require.Equal(t, props.KindNull, props.FromAny(nil).Kind())
	require.Equal(t, props.KindBool, props.FromAny(true).Kind())
	require.Equal(t, props.KindInt, props.FromAny(7).Kind())
	require.Equal(t, props.KindDouble, props.FromAny(7.5).Kind())
	require.Equal(t, props.KindString, props.FromAny("s").Kind())
}

func TestBagJSONRoundTrip(t *testing.T) {
	b := props.NewBag()
	b.Set("Message", props.String("hello"))
	b.Set("Count", props.Int(4))
	b.Set("Chance", props.Double(0.25))
	b.Set("Enabled", props.Bool(true))
	b.Set("Empty", props.Null())

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var out props.Bag
	require.NoError(t, json.Unmarshal(data, &out))

	require.Equal(t, []string{"Message", "Count", "Chance", "Enabled", "Empty"}, out.Keys())
	require.Equal(t, props.KindString, out.Get("message").Kind())
	require.Equal(t, props.KindInt, out.Get("count").Kind())
	require.Equal(t, props.KindDouble, out.Get("chance").Kind())
	require.Equal(t, props.KindBool, out.Get("enabled").Kind())
	require.Equal(t, props.KindNull, out.Get("empty").Kind())
	require.Equal(t, int64(4), out.Get("COUNT").AsInt())
}

func TestBagYAMLRoundTrip(t *testing.T) {
	b := props.NewBag()
	b.Set("FlagName", props.String("met_king"))
	b.Set("Value", props.Bool(true))
	b.Set("Weight", props.Int(10))

	data, err := yaml.Marshal(b)
	require.NoError(t, err)

	var out props.Bag
	require.NoError(t, yaml.Unmarshal(data, &out))

	require.Equal(t, "met_king", out.Get("flagname").AsString())
	require.True(t, out.Get("VALUE").AsBool())
	require.Equal(t, int64(10), out.Get("weight").AsInt())
	require.Equal(t, props.KindInt, out.Get("weight").Kind())
}

func TestBagDelete(t *testing.T) {
	b := props.NewBag()
	b.Set("A", props.Int(1))
	b.Set("B", props.Int(2))
	b.Set("C", props.Int(3))

	b.Delete("b")
	require.Equal(t, 2, b.Len())
	require.False(t, b.Has("B"))
	require.Equal(t, []string{"A", "C"}, b.Keys())
	require.Equal(t, int64(3), b.Get("c").AsInt())
}

func TestBagOf(t *testing.T) {
	b := props.Of("Message", "hi", "Count", 2)
	require.Equal(t, "hi", b.Get("message").AsString())
	require.Equal(t, int64(2), b.Get("count").AsInt())
}
