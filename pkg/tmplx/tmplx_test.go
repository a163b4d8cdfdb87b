package tmplx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("plain field", func(t *testing.T) {
		tmpl := MustParse("greet", "Hello, {{ .Name }}!")
		buf, err := tmpl.Render(map[string]string{"Name": "Ada"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Ada!", buf.String())
	})

	t.Run("missing key renders zero value", func(t *testing.T) {
		tmpl := MustParse("greet", "Hello, {{ .Name }}!")
		buf, err := tmpl.Render(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "Hello, !", buf.String())
	})

	t.Run("json func", func(t *testing.T) {
		tmpl := MustParse("dump", "{{ json .Items }}")
		buf, err := tmpl.Render(map[string]any{"Items": []int{1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, "[1,2,3]", buf.String())
	})

	t.Run("default func", func(t *testing.T) {
		tmpl := MustParse("desc", `{{ default "n/a" .Description }}`)
		buf, err := tmpl.Render(map[string]string{"Description": ""})
		require.NoError(t, err)
		assert.Equal(t, "n/a", buf.String())

		buf, err = tmpl.Render(map[string]string{"Description": "bakery"})
		require.NoError(t, err)
		assert.Equal(t, "bakery", buf.String())
	})

	t.Run("join func", func(t *testing.T) {
		tmpl := MustParse("list", `{{ join ", " .Categories }}`)
		buf, err := tmpl.Render(map[string]any{"Categories": []string{"Taxes", "Permits"}})
		require.NoError(t, err)
		assert.Equal(t, "Taxes, Permits", buf.String())
	})
}

func TestParseError(t *testing.T) {
	t.Parallel()
	_, err := Parse("broken", "{{ .Name")
	assert.ErrorIs(t, err, ErrParseTemplate)
	assert.Panics(t, func() {
		MustParse("broken", "{{ .Name")
	})
}

func TestRenderError(t *testing.T) {
	t.Parallel()
	tmpl := MustParse("bad", `{{ json .Ch }}`)
	_, err := tmpl.Render(map[string]any{"Ch": make(chan int)})
	assert.ErrorIs(t, err, ErrRenderTemplate)
}
