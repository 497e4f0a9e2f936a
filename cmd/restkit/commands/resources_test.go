package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAPI points the CLI configuration at a test server.
func setupAPI(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("host", server.URL)
	viper.Set("api_version", "v3")
	viper.Set("output", "json")
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	if args == nil {
		args = []string{}
	}

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestResourceCommands(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"get", NewGetCommand(), "get RESOURCE ID", []string{"query", "url"}},
		{"list", NewListCommand(), "list RESOURCE", []string{"query", "url", "paginate"}},
		{"create", NewCreateCommand(), "create RESOURCE", []string{"query", "data", "form"}},
		{"update", NewUpdateCommand(), "update RESOURCE ID", []string{"query", "data"}},
		{"delete", NewDeleteCommand(), "delete RESOURCE ID", []string{"query"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotNil(t, tt.cmd.RunE)
			assert.NotNil(t, tt.cmd.Args)

			for _, flagName := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flagName), "Flag %s should exist", flagName)
			}
		})
	}
}

func TestGetCommand(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/dragons/dragon1", r.URL.Path)
		assert.Equal(t, "name", r.URL.Query().Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"dragon1","name":"Dragon 1"}`))
	})

	out, err := execute(t, NewGetCommand(), "dragons", "dragon1", "--query", "fields=name")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Dragon 1", result["name"])
}

func TestGetCommand_InvalidQuery(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := execute(t, NewGetCommand(), "dragons", "dragon1", "--query", "fields")
	require.ErrorIs(t, err, ErrInvalidQueryFormat)
}

func TestGetCommand_NoHost(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := execute(t, NewGetCommand(), "dragons", "dragon1")
	require.ErrorIs(t, err, ErrHostNotConfigured)
}

func TestListCommand_Paginate(t *testing.T) {
	var calls int32

	var serverURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`[{"id":"c"}]`))

			return
		}

		w.Header().Set("Link", `<`+serverURL+`/v3/launches/past?page=2>; rel="next"`)
		_, _ = w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
	}))
	defer server.Close()

	serverURL = server.URL

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("host", server.URL)
	viper.Set("api_version", "v3")
	viper.Set("output", "json")

	out, err := execute(t, NewListCommand(), "launches/past", "--paginate")
	require.NoError(t, err)

	var result []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestListCommand_Table(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/dragons", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"dragon1","name":"Dragon 1"},{"id":"dragon2"}]`))
	})
	viper.Set("output", "table")

	out, err := execute(t, NewListCommand(), "dragons")
	require.NoError(t, err)
	assert.Contains(t, out, "dragon1")
	assert.Contains(t, out, "Dragon 1")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "2 item(s)")
}

func TestCreateCommand(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v3/capsules", r.URL.Path)
			assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "C101", body["serial"])

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"capsule1"}`))
		})

		out, err := execute(t, NewCreateCommand(), "capsules", "--data", `{"serial":"C101"}`)
		require.NoError(t, err)
		assert.Contains(t, out, "capsule1")
	})

	t.Run("form body", func(t *testing.T) {
		setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "C101", r.PostForm.Get("serial"))

			_, _ = w.Write([]byte(`{"id":"capsule1"}`))
		})

		_, err := execute(t, NewCreateCommand(), "capsules", "--form", "serial=C101")
		require.NoError(t, err)
	})

	t.Run("missing body", func(t *testing.T) {
		setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := execute(t, NewCreateCommand(), "capsules")
		require.ErrorIs(t, err, ErrBodyRequired)
	})
}

func TestUpdateCommand(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v3/capsules/capsule1", r.URL.Path)

		_, _ = w.Write([]byte(`{"id":"capsule1","status":"retired"}`))
	})

	out, err := execute(t, NewUpdateCommand(), "capsules", "capsule1", "--data", "status: retired")
	require.NoError(t, err)
	assert.Contains(t, out, "retired")
}

func TestDeleteCommand(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v3/capsules/capsule1", r.URL.Path)

		w.WriteHeader(http.StatusNoContent)
	})
	viper.Set("output", "table")

	out, err := execute(t, NewDeleteCommand(), "capsules", "capsule1")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
}

func TestDeleteCommand_NotFound(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found"}`))
	})

	_, err := execute(t, NewDeleteCommand(), "capsules", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
