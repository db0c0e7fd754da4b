package artifacts_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/pipeline/mocks"
	"pipeline-storage/feature/artifacts"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, backend pipeline.Backend) *fiber.App {
	t.Helper()
	return setupAppAt(t, backend, "out")
}

func setupAppAt(t *testing.T, backend pipeline.Backend, rootPrefix string) *fiber.App {
	t.Helper()
	root, err := pipeline.New(context.Background(), backend, pipeline.Options{RootPrefix: rootPrefix})
	require.NoError(t, err)

	app := fiber.New()
	require.NoError(t, artifacts.NewFeature(root, zap.NewNop()).Load(app))
	return app
}

func seed(t *testing.T, backend *pipeline.MemoryBackend, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, backend.Write(context.Background(), name, []byte(name)))
	}
}

func decode(t *testing.T, body io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func findRequest(params url.Values) *http.Request {
	return httptest.NewRequest("GET", "/artifacts/find?"+params.Encode(), nil)
}

func TestHandleFind(t *testing.T) {
	backend := pipeline.NewMemoryBackend()
	app := setupApp(t, backend)
	seed(t, backend,
		"out/runs/2021/a.csv",
		"out/runs/2022/b.csv",
		"out/runs/2022/c.txt",
		"outer/runs/2021/z.csv",
	)

	t.Run("Matches", func(t *testing.T) {
		req := findRequest(url.Values{"pattern": {`runs/(?P<year>\d{4})/(?P<name>\w+)\.csv`}})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result artifacts.FindResult
		decode(t, resp.Body, &result)
		require.Len(t, result.Matches, 2)
		assert.Equal(t, "runs/2021/a.csv", result.Matches[0].Key)
		assert.Equal(t, map[string]string{"year": "2021", "name": "a"}, result.Matches[0].Groups)
		assert.Equal(t, "runs/2022/b.csv", result.Matches[1].Key)
		assert.Equal(t, 3, result.Progress.Total)
		assert.Equal(t, 3, result.Progress.Completed)
		assert.Equal(t, "2 files loaded (1 filtered)", result.Progress.Description)
	})

	t.Run("FieldFilter", func(t *testing.T) {
		req := findRequest(url.Values{"pattern": {`runs/(?P<year>\d{4})/`}, "filter.year": {"2022"}})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result artifacts.FindResult
		decode(t, resp.Body, &result)
		require.Len(t, result.Matches, 2)
		for _, m := range result.Matches {
			assert.Equal(t, "2022", m.Groups["year"])
		}
	})

	t.Run("MaxResults", func(t *testing.T) {
		req := findRequest(url.Values{"pattern": {"runs/"}, "max_results": {"1"}})
		resp, err := app.Test(req)
		require.NoError(t, err)

		var result artifacts.FindResult
		decode(t, resp.Body, &result)
		require.Len(t, result.Matches, 1)
		assert.Equal(t, "runs/2021/a.csv", result.Matches[0].Key)
	})

	t.Run("UnknownField", func(t *testing.T) {
		req := findRequest(url.Values{"pattern": {`runs/(?P<year>\d{4})`}, "filter.month": {"01"}})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		req := findRequest(url.Values{"pattern": {"runs/("}})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingPattern", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/artifacts/find", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleFindStorageUnavailable(t *testing.T) {
	backend := new(mocks.Backend)
	backend.On("ContainerExists", mock.Anything).Return(true, nil)
	backend.On("List", mock.Anything, "out/").Return(nil, errors.New("connection reset"))
	app := setupApp(t, backend)

	resp, err := app.Test(httptest.NewRequest("GET", "/artifacts/find?pattern=runs/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleObject(t *testing.T) {
	backend := pipeline.NewMemoryBackend()
	app := setupApp(t, backend)

	t.Run("PutGet", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/artifacts/object/runs/2021/a.csv", strings.NewReader("id,value\n1,2\n"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		decode(t, resp.Body, &body)
		assert.Equal(t, "runs/2021/a.csv", body["key"])
		assert.Equal(t, "out/runs/2021/a.csv", body["address"])
		assert.Equal(t, true, body["persisted"])

		resp, err = app.Test(httptest.NewRequest("GET", "/artifacts/object/runs/2021/a.csv", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "id,value\n1,2\n", string(data))
	})

	t.Run("Encoding", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/artifacts/object/notes.txt?encoding=windows-1252", strings.NewReader("café"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		raw, err := backend.Read(context.Background(), "out/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, raw)

		resp, err = app.Test(httptest.NewRequest("GET", "/artifacts/object/notes.txt?encoding=windows-1252", nil))
		require.NoError(t, err)
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "café", string(data))

		resp, err = app.Test(httptest.NewRequest("GET", "/artifacts/object/notes.txt?binary=true", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.MIMEOctetStream, resp.Header.Get(fiber.HeaderContentType))
		data, _ = io.ReadAll(resp.Body)
		assert.Equal(t, raw, data)
	})

	t.Run("Missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/artifacts/object/missing.csv", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("HEAD", "/artifacts/object/missing.csv", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("HeadDelete", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("HEAD", "/artifacts/object/runs/2021/a.csv", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("DELETE", "/artifacts/object/runs/2021/a.csv", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		exists, err := backend.Exists(context.Background(), "out/runs/2021/a.csv")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ChildNamespace", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/artifacts/object/a.csv?namespace=stage1", strings.NewReader("x"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		exists, err := backend.Exists(context.Background(), "out/stage1/a.csv")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestHandlePutNotPersisted(t *testing.T) {
	backend := new(mocks.Backend)
	backend.On("ContainerExists", mock.Anything).Return(true, nil)
	backend.On("Write", mock.Anything, "out/a.csv", mock.Anything).Return(errors.New("quota exceeded"))
	app := setupApp(t, backend)

	resp, err := app.Test(httptest.NewRequest("PUT", "/artifacts/object/a.csv", strings.NewReader("x")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp.Body, &body)
	assert.Equal(t, false, body["persisted"])
	assert.Contains(t, body["error"], "quota exceeded")
}

func TestHandleClear(t *testing.T) {
	backend := pipeline.NewMemoryBackend()
	app := setupApp(t, backend)
	seed(t, backend, "out/stage1/a.csv", "out/stage2/b.csv", "outer/c.csv")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/artifacts?namespace=stage1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	objects, err := backend.List(context.Background(), "")
	require.NoError(t, err)
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"out/stage2/b.csv", "outer/c.csv"}, names)
}

func TestHandleObjectAtBucketRoot(t *testing.T) {
	backend := pipeline.NewMemoryBackend()
	app := setupAppAt(t, backend, "")

	for _, key := range []string{"alpha.txt", "bravo.txt", "charl.txt"} {
		resp, err := app.Test(httptest.NewRequest("PUT", "/artifacts/object/"+key, strings.NewReader(key)))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	// Unrelated traffic reuses the request buffers of the writes above.
	for _, key := range []string{"zzzzz.zzz", "yyyyy.yyy"} {
		resp, err := app.Test(httptest.NewRequest("HEAD", "/artifacts/object/"+key, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	objects, err := backend.List(context.Background(), "")
	require.NoError(t, err)
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"alpha.txt", "bravo.txt", "charl.txt"}, names)

	resp, err := app.Test(findRequest(url.Values{"pattern": {`(?P<name>\w+)\.txt`}}))
	require.NoError(t, err)
	var result artifacts.FindResult
	decode(t, resp.Body, &result)
	require.Len(t, result.Matches, 3)
	assert.Equal(t, "bravo", result.Matches[1].Groups["name"])
}

func TestHandleEscapingNamespace(t *testing.T) {
	backend := pipeline.NewMemoryBackend()
	app := setupApp(t, backend)
	seed(t, backend, "out/a.txt", "other/secret.txt")

	for _, target := range []string{"/artifacts?namespace=..", "/artifacts?namespace=a/../..", "/artifacts/object/secret.txt?namespace=../other"} {
		resp, err := app.Test(httptest.NewRequest("DELETE", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}

	objects, err := backend.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestHandleKeys(t *testing.T) {
	app := setupApp(t, pipeline.NewMemoryBackend())

	resp, err := app.Test(httptest.NewRequest("GET", "/artifacts/keys", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}
