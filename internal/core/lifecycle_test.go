package core

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"zerobin/internal/config"
	"zerobin/internal/database"
	"zerobin/internal/item"
)

func testServer(t *testing.T) PasteServer {
	t.Helper()

	ctx := context.Background()
	dir := t.TempDir()
	sqlite, err := database.DatabaseSetup(ctx, dir, database.EmbedMigrations)
	if err != nil {
		t.Fatalf("database.DatabaseSetup() %+v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return NewPasteServer(sqlite, config.Config{
		Salt:    []byte("test salt"),
		BaseURL: "paste.example.com",
	})
}

func multipartBody(t *testing.T, fields ...[2]string) *multipart.Reader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			t.Fatalf("w.WriteField(%q) %+v", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("w.Close() %+v", err)
	}

	return multipart.NewReader(&buf, w.Boundary())
}

func TestCreateAndFetchByDigest(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t, [2]string{"c", "hello"}))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}
	if it.Digest == "" || it.Label == "" {
		t.Fatalf("created item missing identifiers: %+v", it)
	}

	out, err := server.Fetch(item.DigestSigil + it.Digest)
	if err != nil {
		t.Fatalf("server.Fetch() %+v", err)
	}
	if string(out.Item.Content) != "hello" {
		t.Errorf("content = %q, want hello", out.Item.Content)
	}
	if out.Redirect != "" {
		t.Errorf("blob read should not redirect, got %q", out.Redirect)
	}
}

func TestCreateConsumesIDEvenWhenRejected(t *testing.T) {
	server := testServer(t)

	_, err := server.Create(multipartBody(t, [2]string{"bogus", "x"}))
	if !errors.Is(err, item.ErrUnknownField) {
		t.Fatalf("err = %+v, want ErrUnknownField", err)
	}

	it, err := server.Create(multipartBody(t, [2]string{"c", "hello"}))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}
	if it.ID != 2 {
		t.Errorf("id = %d, the rejected create should still have consumed id 1", it.ID)
	}
}

func TestFetchByLabel(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t,
		[2]string{"c", "hello"},
		[2]string{"label", "mypaste"},
	))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}
	if it.Label != "~mypaste" {
		t.Fatalf("label = %q", it.Label)
	}

	out, err := server.Fetch("~mypaste")
	if err != nil {
		t.Fatalf("server.Fetch() %+v", err)
	}
	if string(out.Item.Content) != "hello" {
		t.Errorf("content = %q", out.Item.Content)
	}
}

func TestPrivateItemOnlyFetchableByDigest(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t,
		[2]string{"c", "secret"},
		[2]string{"label", "hidden"},
		[2]string{"private", "true"},
	))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	if _, err := server.Fetch("~hidden"); !errors.Is(err, ErrNotFound) {
		t.Errorf("label fetch of private item: err = %+v, want ErrNotFound", err)
	}

	if _, err := server.Fetch(item.DigestSigil + it.Digest); err != nil {
		t.Errorf("digest fetch of private item failed: %+v", err)
	}
}

func TestURLItemFetchRedirects(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t, [2]string{"u", "http://example.com"}))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	out, err := server.Fetch(it.Label)
	if err != nil {
		t.Fatalf("server.Fetch() %+v", err)
	}
	if out.Redirect != "http://example.com" {
		t.Errorf("redirect = %q, want http://example.com", out.Redirect)
	}
}

func TestSelfDestructWithinGrace(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t,
		[2]string{"c", "ephemeral"},
		[2]string{"destruct", "true"},
	))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	// a read right after creation falls inside the grace window
	if _, err := server.Fetch(item.DigestSigil + it.Digest); err != nil {
		t.Fatalf("server.Fetch() %+v", err)
	}
	if _, err := server.Fetch(item.DigestSigil + it.Digest); err != nil {
		t.Errorf("item should survive reads inside the grace window, got %+v", err)
	}
}

func TestSelfDestructAfterGrace(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t,
		[2]string{"c", "ephemeral"},
		[2]string{"destruct", "true"},
	))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	// age the item past the grace window
	it.Timestamp = time.Now().UTC().Add(-DestructGrace - time.Minute)
	if err := server.DB.UpdateItem(it); err != nil {
		t.Fatalf("server.DB.UpdateItem() %+v", err)
	}

	out, err := server.Fetch(item.DigestSigil + it.Digest)
	if err != nil {
		t.Fatalf("the destructing read should still return content, got %+v", err)
	}
	if string(out.Item.Content) != "ephemeral" {
		t.Errorf("content = %q", out.Item.Content)
	}

	if _, err := server.Fetch(item.DigestSigil + it.Digest); !errors.Is(err, ErrNotFound) {
		t.Errorf("item should be gone after the destructing read, got %+v", err)
	}
}

func TestUpdateKeepsUnspecifiedFields(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t, [2]string{"c", "hello"}))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	updated, err := server.Update(item.DigestSigil+it.Digest,
		multipartBody(t, [2]string{"label", "renamed"}))
	if err != nil {
		t.Fatalf("server.Update() %+v", err)
	}

	if string(updated.Content) != "hello" {
		t.Errorf("content should be kept across the update, got %q", updated.Content)
	}
	if updated.Label != "~renamed" {
		t.Errorf("label = %q, want ~renamed", updated.Label)
	}
	if updated.ID != it.ID {
		t.Errorf("id changed from %d to %d", it.ID, updated.ID)
	}

	out, err := server.Fetch("~renamed")
	if err != nil {
		t.Fatalf("server.Fetch() %+v", err)
	}
	if string(out.Item.Content) != "hello" {
		t.Errorf("content = %q", out.Item.Content)
	}
}

func TestUpdateReplacesContent(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t, [2]string{"c", "hello"}))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	updated, err := server.Update(item.DigestSigil+it.Digest,
		multipartBody(t, [2]string{"c", "goodbye"}))
	if err != nil {
		t.Fatalf("server.Update() %+v", err)
	}

	if string(updated.Content) != "goodbye" {
		t.Errorf("content = %q", updated.Content)
	}
	if updated.Digest == it.Digest {
		t.Error("digest should change with the content")
	}
}

func TestDeleteRequiresDigestForm(t *testing.T) {
	server := testServer(t)

	it, err := server.Create(multipartBody(t, [2]string{"c", "hello"}))
	if err != nil {
		t.Fatalf("server.Create() %+v", err)
	}

	if err := server.Delete(it.Label); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by label: err = %+v, want ErrNotFound", err)
	}

	if err := server.Delete(item.DigestSigil + it.Digest); err != nil {
		t.Fatalf("server.Delete() %+v", err)
	}

	if err := server.Delete(item.DigestSigil + it.Digest); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %+v, want ErrNotFound", err)
	}
}
