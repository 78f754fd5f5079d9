package asset

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := NewResource(fetchUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	fetchUrl = server.URL + "/file-not-found.foo"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = NewResource(fetchUrl, nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestRelativeResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		if r.URL.Path == "/foo/file1.go" {
			w.Write([]byte("OK"))
		} else if r.URL.Path == "/foo/file2.go" {
			w.Write([]byte("OK"))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	res1, err := NewResource(server.URL+"/foo/file1.go", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()
	res2, err := NewResource("file2.go", res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()

	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	expError := "resource: unsupported scheme 'gopher'"
	_, err := NewResource("gopher://digging.go", nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestResourceConnectionRefusedError(t *testing.T) {
	_, err := NewResource("http://localhost:12345/foo.go", nil)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected to get 'connection refused error'; got %v", err)
	}
}
func TestLocalRelativeResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	parent, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer parent.Close()

	res, err := NewResource("resource.go", parent)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local resource")
	}
	if exp := filepath.Join(filepath.Dir(thisFile), "resource.go"); filepath.Clean(filepath.FromSlash(res.Path())) != exp {
		t.Fatalf("expected resource path %s; got %s", exp, res.Path())
	}

	if _, err = NewResource("missing-file.xml", parent); err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}

func TestResourceNameAndExt(t *testing.T) {
	type spec struct {
		path    string
		expName string
		expExt  string
	}
	specs := []spec{
		{"scene.xml", "scene.xml", ".xml"},
		{"/tmp/foo/Scene.ZIP", "Scene.ZIP", ".zip"},
		{"http://example.com/scenes/bunny.xml?rev=2", "bunny.xml", ".xml"},
		{"noext", "noext", ""},
	}

	for index, s := range specs {
		res := NewResourceFromStream(s.path, strings.NewReader(""))
		if got := res.Name(); got != s.expName {
			t.Fatalf("[spec %d] expected name %q; got %q", index, s.expName, got)
		}
		if got := res.Ext(); got != s.expExt {
			t.Fatalf("[spec %d] expected ext %q; got %q", index, s.expExt, got)
		}
	}
}

func TestResourceFromStream(t *testing.T) {
	res := mockResource("payload")
	defer res.Close()

	data, err := ioutil.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("expected to read back 'payload'; got %q", string(data))
	}
	if res.Path() != "embedded" {
		t.Fatalf("expected path 'embedded'; got %q", res.Path())
	}
}

func mockResource(payload string) *Resource {
	url, _ := url.Parse("embedded")
	return &Resource{
		ReadCloser: ioutil.NopCloser(strings.NewReader(payload)),
		url:        url,
	}
}
