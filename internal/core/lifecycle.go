package core

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"zerobin/internal/item"
)

// DestructGrace is how long after creation a destruct item survives its
// first read, so the uploader can still fetch the confirmation or
// reload once before it vanishes.
const DestructGrace = 10 * time.Second

var ErrNotFound = errors.New("item not found")

// ReadOutcome is what a resolved read produces: either stored bytes, or
// a redirect when the item holds a URL.
type ReadOutcome struct {
	Item     item.Item
	Redirect string
}

// Create allocates a fresh id, ingests the multipart body and persists
// the result. The id stays consumed even when ingestion or the insert
// fails.
func (s PasteServer) Create(body *multipart.Reader) (item.Item, error) {
	id, err := s.DB.NextID()
	if err != nil {
		return item.Item{}, fmt.Errorf("s.DB.NextID(). %w", err)
	}

	it, err := item.NewWithID(id).ReadMultipartBody(body, s.Salt)
	if err != nil {
		return it, err
	}

	if err := s.DB.AddItem(it); err != nil {
		return it, fmt.Errorf("s.DB.AddItem(). %w", err)
	}

	return it, nil
}

// Fetch resolves an external id and applies the self-destruct rule:
// once the grace window has passed, a successful read of a destruct
// item deletes it. The delete is a side effect; its failure is logged
// and the content of this read is returned regardless.
func (s PasteServer) Fetch(id string) (ReadOutcome, error) {
	it, err := s.lookup(id)
	if err != nil {
		return ReadOutcome{}, err
	}

	if it.Destruct && time.Since(it.Timestamp) > DestructGrace {
		if err := s.DB.DeleteItem(it.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
			// a concurrent sweep may have beaten us to it, that case
			// is the benign ErrNoRows filtered above
			log.Printf("s.DB.DeleteItem(%d). %+v", it.ID, err)
		}
	}

	out := ReadOutcome{Item: it}
	if it.IsURL {
		out.Redirect = string(it.Content)
	}

	return out, nil
}

// Update re-runs ingestion seeded with the stored item, so fields the
// body leaves out keep their prior values, and persists under the same
// id. Digest, label and filename may all change.
func (s PasteServer) Update(id string, body *multipart.Reader) (item.Item, error) {
	it, err := s.lookup(id)
	if err != nil {
		return item.Item{}, err
	}

	it, err = it.ReadMultipartBody(body, s.Salt)
	if err != nil {
		return it, err
	}

	if err := s.DB.UpdateItem(it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return it, ErrNotFound
		}
		return it, fmt.Errorf("s.DB.UpdateItem(). %w", err)
	}

	return it, nil
}

// Delete removes an item addressed by its digest-qualified external id.
// Label-form ids are refused, mirroring how create and update address
// responses hand out the digest for later management.
func (s PasteServer) Delete(id string) error {
	digest, ok := strings.CutPrefix(id, item.DigestSigil)
	if !ok {
		return ErrNotFound
	}

	if err := s.DB.DeleteItemByDigest(digest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("s.DB.DeleteItemByDigest(). %w", err)
	}

	return nil
}

// lookup resolves the overlaid id namespaces: a digest-sigil prefix
// addresses by digest, anything else is a label lookup restricted to
// public items.
func (s PasteServer) lookup(id string) (item.Item, error) {
	var it item.Item
	var err error

	if digest, ok := strings.CutPrefix(id, item.DigestSigil); ok {
		it, err = s.DB.GetItemByDigest(digest)
	} else {
		it, err = s.DB.GetPublicItemByLabel(id)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return it, ErrNotFound
		}
		return it, fmt.Errorf("item lookup %q. %w", id, err)
	}

	return it, nil
}
