package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/exseq/pkg/reconciler"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "C1", "C1"},
		{"padded", "  C1\t", "C1"},
		{"quoted", `"C1"`, "C1"},
		{"quoted with inner padding", `"C1 "`, "C1"},
		{"padded and quoted", `  " C1 "  `, "C1"},
		{"one layer only", `""C1""`, `"C1"`},
		{"leading quote only", `"C1`, `"C1`},
		{"trailing quote only", `C1"`, `C1"`},
		{"lone quote", `"`, `"`},
		{"empty quotes", `""`, ""},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"inner quotes kept", `C"1`, `C"1`},
		{"numeric", " 42 ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconciler.Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"C1", " C1 ", `"C1"`, `"C1 "`, `  " C1 "  `, `"C1`, `C1"`, `"`, `""`,
		"", " ", "cell_0001", `"Neuron type A"`, "\tX\n", `C"1`,
	}
	for _, s := range inputs {
		once := reconciler.Normalize(s)
		assert.Equal(t, once, reconciler.Normalize(once), "input %q", s)
	}
}

func TestNormalizeNestedQuotesNeedTwoPasses(t *testing.T) {
	for _, s := range []string{`""C1""`, ` "C1" `, `" "C1" "`} {
		once := reconciler.Normalize(s)
		assert.Equal(t, "C1", reconciler.Normalize(once), "input %q", s)
	}
	assert.Equal(t, `"C1"`, reconciler.Normalize(`""C1""`))
	assert.Equal(t, `"C1"`, reconciler.Normalize(`" "C1" "`))
}
