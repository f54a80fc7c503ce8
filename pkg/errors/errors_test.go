package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/exseq/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "cell type table",
			Path:     "/data/cell_type_WT_F11.csv",
		}
		assert.Equal(t, "cell type table not found: /data/cell_type_WT_F11.csv", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor keeps cause", func(t *testing.T) {
		cause := errors.New("no such file or directory")
		err := pkgerrors.NewNotFoundError("primary table", "a.csv", cause)
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("directory", "data/csvs", nil)
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
		assert.False(t, pkgerrors.IsSchemaError(wrapped))
	})
}

func TestSchemaError(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		err := pkgerrors.NewSchemaError("regions.csv", "cell", []string{"gene", "region"})
		assert.Equal(t, `table regions.csv is missing required column "cell" (have: gene, region)`, err.Error())
		assert.True(t, pkgerrors.IsSchemaError(err))
	})

	t.Run("without header", func(t *testing.T) {
		err := &pkgerrors.SchemaError{Table: "cell_type.csv", Column: "cell_index"}
		assert.Equal(t, `table cell_type.csv is missing required column "cell_index"`, err.Error())
	})

	t.Run("as target", func(t *testing.T) {
		var target *pkgerrors.SchemaError
		err := errors.Join(errors.New("context"), pkgerrors.NewSchemaError("t", "cell_type", nil))
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "cell_type", target.Column)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "output",
			Message: "must differ from inputs",
		}
		assert.Equal(t, "validation failed for field output: must differ from inputs", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapValidation("samples", nil))
		err := pkgerrors.WrapValidation("samples", errors.New("duplicate name"))
		assert.Contains(t, err.Error(), "samples")
		assert.Contains(t, err.Error(), "duplicate name")
	})
}

func TestConfigError(t *testing.T) {
	cause := errors.New("yaml: line 3")
	err := pkgerrors.NewConfigError("samples", "cannot parse", cause)
	assert.Contains(t, err.Error(), "samples")
	assert.Contains(t, err.Error(), "cannot parse")
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "write",
			Path:      "/tmp/out.csv",
			Message:   "permission denied",
		}
		assert.Contains(t, err.Error(), "write")
		assert.Contains(t, err.Error(), "/tmp/out.csv")
		assert.Contains(t, err.Error(), "permission denied")
		assert.True(t, pkgerrors.IsIOError(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/output.csv", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapIO("rename", "x", nil))
		err := pkgerrors.WrapIO("rename", "/data/out.csv", errors.New("cross-device link"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "rename", ioErr.Operation)
		assert.Equal(t, "/data/out.csv", ioErr.Path)
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and line", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "csv",
			File:    "regions.csv",
			Line:    10,
			Message: "wrong number of fields",
		}
		assert.Equal(t, "parse error in csv at regions.csv:10: wrong number of fields", err.Error())
	})

	t.Run("file only", func(t *testing.T) {
		err := pkgerrors.WrapParse("yaml", "samples.yaml", errors.New("bad indent"))
		assert.Equal(t, "parse error in yaml file samples.yaml: bad indent", err.Error())
	})

	t.Run("no file", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "json", Message: "unexpected EOF"}
		assert.Equal(t, "json parse error: unexpected EOF", err.Error())
	})
}
