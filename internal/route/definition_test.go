package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleDefinition() Definition {
	return Definition{
		ID:  "r1",
		URI: "http://a",
		Predicates: []PredicateDefinition{
			{Name: "Path", Args: map[string]string{"_genkey_0": "/a", "_genkey_1": "/b"}},
		},
		Filters: []FilterDefinition{
			{Name: "AddRequestHeader", Args: map[string]string{"_genkey_0": "X-Foo", "_genkey_1": "Bar"}},
		},
		Order:    3,
		Metadata: map[string]string{"team": "core"},
	}
}

func TestDefinition_SameID(t *testing.T) {
	t.Parallel()

	a := Definition{ID: "r1", URI: "http://a"}
	b := Definition{ID: "r1", URI: "http://b"}
	c := Definition{ID: "r2", URI: "http://a"}

	assert.True(t, a.SameID(b))
	assert.False(t, a.SameID(c))
}

func TestDefinition_Clone(t *testing.T) {
	t.Parallel()

	orig := sampleDefinition()
	clone := orig.Clone()
	assert.Equal(t, orig, clone)

	clone.Predicates[0].Args["_genkey_0"] = "/changed"
	clone.Filters[0].Name = "StripPrefix"
	clone.Metadata["team"] = "edge"

	assert.Equal(t, "/a", orig.Predicates[0].Args["_genkey_0"])
	assert.Equal(t, "AddRequestHeader", orig.Filters[0].Name)
	assert.Equal(t, "core", orig.Metadata["team"])
}

func TestDefinition_Clone_NilCollections(t *testing.T) {
	t.Parallel()

	clone := Definition{ID: "r1"}.Clone()

	assert.Nil(t, clone.Predicates)
	assert.Nil(t, clone.Filters)
	assert.Nil(t, clone.Metadata)
}

func TestDefinition_String(t *testing.T) {
	t.Parallel()

	s := sampleDefinition().String()

	assert.Equal(t,
		`RouteDefinition{id="r1", uri="http://a", predicates=[Path{_genkey_0=/a, _genkey_1=/b}], `+
			`filters=[AddRequestHeader{_genkey_0=X-Foo, _genkey_1=Bar}], order=3}`,
		s)
}

func TestFormatArgs_Ordering(t *testing.T) {
	t.Parallel()

	args := map[string]string{
		"_genkey_10": "k",
		"_genkey_2":  "c",
		"regexp":     "x",
		"name":       "y",
	}

	assert.Equal(t, "Header{_genkey_2=c, _genkey_10=k, name=y, regexp=x}", formatArgs("Header", args))
	assert.Equal(t, "Header", formatArgs("Header", nil))
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "_genkey_0", GenerateKey(0))
	assert.Equal(t, "_genkey_12", GenerateKey(12))
}
