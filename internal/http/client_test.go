package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/restkit/internal/auth"
	restkithttp "github.com/fivetwenty-io/restkit/internal/http"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// MockLogger for testing.
type MockLogger struct {
	mutex sync.Mutex
	logs  []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v3/dragons", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "secret-key", request.Header.Get("X-Api-Key"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"id": "dragon1", "name": "Dragon 1"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL+"/v3/", auth.NewStaticHeader("X-Api-Key", "secret-key"))

		resp, err := client.Do(context.Background(), &restkithttp.Request{
			Method: "GET",
			Path:   "dragons",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "dragon1", result["id"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v3/launches", request.URL.Path)
			assert.Equal(t, "limit=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL+"/v3/", nil)

		resp, err := client.Get(context.Background(), "launches", url.Values{"limit": []string{"2"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "falcon", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil)

		resp, err := client.Post(context.Background(), "/rockets", map[string]string{"name": "falcon"})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("request with form body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))
			assert.NoError(t, request.ParseForm())
			assert.Equal(t, "falcon", request.PostForm.Get("name"))
			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil)

		resp, err := client.Do(context.Background(), &restkithttp.Request{
			Method: "POST",
			Path:   "/rockets",
			Form:   url.Values{"name": []string{"falcon"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("request without body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Content-Type"))
			assert.Equal(t, int64(0), request.ContentLength)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), "/rockets", nil)
		require.NoError(t, err)
	})

	t.Run("client error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error": "not found"}`))
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/dragoons", nil)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		clientErr := &restkit.ClientError{}
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, 404, clientErr.StatusCode)
		assert.Equal(t, server.URL+"/dragoons", clientErr.URL)
		assert.Equal(t, map[string]interface{}{"error": "not found"}, clientErr.Data)
	})

	t.Run("server error with non-JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusServiceUnavailable)
			_, _ = writer.Write([]byte("Service Unavailable"))
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), "/dragons", nil)
		require.Error(t, err)

		serverErr := &restkit.ServerError{}
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, 503, serverErr.StatusCode)
		assert.Equal(t, []byte("Service Unavailable"), serverErr.Data)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "default-value", request.Header.Get("X-Default-Header"))
			assert.Equal(t, "restkit-test", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil,
			restkithttp.WithUserAgent("restkit-test"),
			restkithttp.WithHeaders(map[string]string{"X-Default-Header": "default-value"}))

		resp, err := client.Do(context.Background(), &restkithttp.Request{
			Method: "GET",
			Path:   "/dragons",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request id header", func(t *testing.T) {
		t.Parallel()

		var seen []string

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = append(seen, request.Header.Get("X-Request-Id"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := restkithttp.NewClient(server.URL, nil, restkithttp.WithRequestIDHeader("X-Request-Id"))

		_, err := client.Get(context.Background(), "/a", nil)
		require.NoError(t, err)
		_, err = client.Get(context.Background(), "/b", nil)
		require.NoError(t, err)

		require.Len(t, seen, 2)
		assert.Len(t, seen[0], 36)
		assert.NotEqual(t, seen[0], seen[1])
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := restkithttp.NewClient(server.URL, nil, restkithttp.WithLogger(logger), restkithttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/dragons", nil)
		require.NoError(t, err)

		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("absolute path bypasses base URL", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/elsewhere", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := restkithttp.NewClient("https://unused.invalid/v1/", nil)

		_, err := client.Get(context.Background(), server.URL+"/elsewhere", nil)
		require.NoError(t, err)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*restkithttp.Client, context.Context) (*restkithttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *restkithttp.Client, ctx context.Context) (*restkithttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *restkithttp.Client, ctx context.Context) (*restkithttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *restkithttp.Client, ctx context.Context) (*restkithttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *restkithttp.Client, ctx context.Context) (*restkithttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *restkithttp.Client, ctx context.Context) (*restkithttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := restkithttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

func TestClient_NoRetries(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusBadRequest} {
		status := status

		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			t.Parallel()

			attempts := 0

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				attempts++

				writer.WriteHeader(status)
			}))
			defer server.Close()

			client := restkithttp.NewClient(server.URL, nil)

			resp, err := client.Get(context.Background(), "/test", nil)
			require.Error(t, err)
			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := restkithttp.NewClient(server.URL, nil, restkithttp.WithTimeout(20*time.Millisecond))

	_, err := client.Get(context.Background(), "/slow", nil)
	require.Error(t, err)
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "intercepted", request.Header.Get("X-Intercepted"))
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	chain := restkit.NewInterceptorChain()
	chain.AddRequestInterceptor(restkit.HeaderInterceptor(map[string]string{"X-Intercepted": "intercepted"}))

	collector := restkit.NewMetricsCollector()
	collector.Install(chain)

	client := restkithttp.NewClient(server.URL, nil, restkithttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/dragons", url.Values{"limit": []string{"1"}})
	require.NoError(t, err)

	metrics := collector.GetMetrics("GET /dragons")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(1), metrics.TotalRequests)
	assert.Equal(t, int64(0), metrics.TotalErrors)
}

var errInterceptorRejected = errors.New("rejected")

func TestClient_RequestInterceptorFailure(t *testing.T) {
	t.Parallel()

	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls++
	}))
	defer server.Close()

	chain := restkit.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *restkit.Request) error {
		return errInterceptorRejected
	})

	client := restkithttp.NewClient(server.URL, nil, restkithttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/dragons", nil)
	require.ErrorIs(t, err, errInterceptorRejected)
	assert.Equal(t, 0, calls)
}

func TestClient_ResponseInterceptorFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"error":"Not Found"}`))
	}))
	defer server.Close()

	chain := restkit.NewInterceptorChain()
	chain.AddResponseInterceptor(func(ctx context.Context, req *restkit.Request, resp *restkit.Response) error {
		return errInterceptorRejected
	})

	client := restkithttp.NewClient(server.URL, nil, restkithttp.WithInterceptors(chain))

	resp, err := client.Get(context.Background(), "/dragons/missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.ErrorIs(t, err, errInterceptorRejected)

	var clientErr *restkit.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
	assert.Equal(t, server.URL+"/dragons/missing", clientErr.URL)
	assert.Equal(t, map[string]any{"error": "Not Found"}, clientErr.Data)
}

func TestClient_ResolveURL(t *testing.T) {
	t.Parallel()

	client := restkithttp.NewClient("https://api.example.com/v3/", nil)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative", "dragons", "https://api.example.com/v3/dragons"},
		{"leading slash", "/dragons", "https://api.example.com/v3/dragons"},
		{"absolute", "https://other.example.com/x", "https://other.example.com/x"},
		{"upper case scheme", "HTTPS://other.example.com/x", "HTTPS://other.example.com/x"},
		{"plain http", "http://other.example.com/x", "http://other.example.com/x"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, client.ResolveURL(tt.path))
		})
	}
}
