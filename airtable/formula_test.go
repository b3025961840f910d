package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqQuotesValue(t *testing.T) {
	assert.Equal(t, "{First Name} = 'Ada'", Eq("First Name", "Ada"))
	assert.Equal(t, `{Name} = 'O\'Brien'`, Eq("Name", "O'Brien"))
}

func TestAnd(t *testing.T) {
	assert.Equal(t, "", And())
	assert.Equal(t, "", And("", ""))
	assert.Equal(t, "{A} = '1'", And(Eq("A", "1"), ""))
	assert.Equal(t, "AND({A} = '1', {B} = '2')", And(Eq("A", "1"), Eq("B", "2")))
}

func TestOr(t *testing.T) {
	assert.Equal(t, "{A} = '1'", Or(Eq("A", "1")))
	assert.Equal(t, "OR({A} = '1', {B} = '2')", Or(Eq("A", "1"), Eq("B", "2")))
}

func TestContains(t *testing.T) {
	assert.Equal(t, "FIND('rec123', ARRAYJOIN({Members})) > 0", Contains("Members", "rec123"))
}

func TestFieldAccessorsTotal(t *testing.T) {
	f := Fields{
		"Name":    "Robotics",
		"Members": []interface{}{"rec1", "rec2"},
		"Amount":  float64(42),
		"Active":  true,
		"Weird":   map[string]interface{}{"unexpected": true},
	}

	assert.Equal(t, "Robotics", f.String("Name"))
	assert.Equal(t, "", f.String("Missing"))
	assert.Equal(t, "", f.String("Weird"))
	assert.Equal(t, []string{"rec1", "rec2"}, f.StringSlice("Members"))
	assert.Equal(t, []string{}, f.StringSlice("Missing"))
	assert.Equal(t, "rec1", f.FirstString("Members"))
	assert.Equal(t, "", f.FirstString("Missing"))
	assert.Equal(t, 42, f.Int("Amount"))
	assert.Equal(t, 0, f.Int("Name"))
	assert.True(t, f.Bool("Active"))
	assert.False(t, f.Bool("Missing"))
	assert.True(t, f.Time("Missing").IsZero())
}
