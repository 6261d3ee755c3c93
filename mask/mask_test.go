package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositiveAndDeny(t *testing.T) {
	m := Pack(Read|Update, Update)
	assert.Equal(t, Read|Update, Positive(m))
	assert.Equal(t, Update, Deny(m))
}

func TestGrantUnion(t *testing.T) {
	assert.Equal(t, Create|Read|Update, Grant(Create|Read, Update))
}

func TestApplyDenyClearsGrant(t *testing.T) {
	grant := Create | Read | Update | Delete
	deny := Read | Delete
	assert.Equal(t, Create|Update, ApplyDeny(grant, deny))
}

func TestApplyDenyTieBreak(t *testing.T) {
	// Same bit granted and denied: deny wins.
	assert.Equal(t, Mask(0), ApplyDeny(Read, Read))
}

func TestPackRoundTrip(t *testing.T) {
	packed := Pack(Create|Delete, Read)
	assert.Equal(t, Create|Delete, Positive(packed))
	assert.Equal(t, Read, Deny(packed))
}

func TestRequestedBitsIgnoresDenyInRequest(t *testing.T) {
	requested := Pack(Create|Read, Update) // a malformed request with deny bits set
	assert.Equal(t, Create|Read, RequestedBits(requested))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(0))
	assert.True(t, IsEmpty(Pack(0, Read))) // deny-only mask has no positive bits
	assert.False(t, IsEmpty(Create))
}

func TestHas(t *testing.T) {
	assert.True(t, Has(Create|Read|Update, Create|Read))
	assert.False(t, Has(Create|Read, Create|Read|Update))
}

func TestMarkerStringAndParse(t *testing.T) {
	cases := map[string]Marker{
		"X": Exclusive,
		"I": IgnoreExclusive,
		"F": IgnoreFilter,
		"T": Terminal,
		"":  Plain,
		"?": Plain,
	}
	for tag, want := range cases {
		assert.Equal(t, want, ParseMarker(tag), "tag %q", tag)
	}
	assert.Equal(t, "exclusive", Exclusive.String())
	assert.Equal(t, "marker(99)", Marker(99).String())
}
