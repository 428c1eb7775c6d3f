package item

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"zerobin/internal/classify"
	"zerobin/internal/ident"
)

const (
	// LabelSigil marks client-supplied labels, DigestSigil marks the
	// digest namespace in external ids. Namespace disambiguation only,
	// neither is a secret.
	LabelSigil  = "~"
	DigestSigil = "+"
)

// Client input errors. Handlers map these to 400; anything else that
// comes out of ingestion is an I/O failure and maps to 500.
var (
	ErrUnknownField    = errors.New("unknown field")
	ErrMalformedField  = errors.New("malformed field value")
	ErrContentConflict = errors.New("cannot mix blob and url content")
	ErrBadBody         = errors.New("malformed multipart body")
)

// IsClientError reports whether err was caused by bad request input
// rather than a server-side failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrMalformedField) ||
		errors.Is(err, ErrContentConflict) ||
		errors.Is(err, ErrBadBody)
}

// Item is one stored paste. Content holds either the uploaded bytes or,
// when IsURL is set, the UTF-8 text of a redirect target. The value is
// local to the request that builds it until persisted.
type Item struct {
	ID        int64
	Content   []byte
	Filename  string
	Mimetype  string
	Digest    string
	Label     string
	Destruct  bool
	Private   bool
	IsURL     bool
	Sunset    time.Time
	Timestamp time.Time
}

// NewWithID returns an empty item holding a freshly allocated id.
func NewWithID(id int64) Item {
	return Item{ID: id}
}

// ReadMultipartBody folds the ordered multipart fields into the item.
// On update the receiver carries the prior state, so fields absent from
// the body keep their old values. Ingestion stops at the first invalid
// field; nothing is persisted by this method.
func (it Item) ReadMultipartBody(data *multipart.Reader, salt []byte) (Item, error) {
	var ext string

	for {
		part, err := data.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return it, fmt.Errorf("%w: %v", ErrBadBody, err)
		}

		switch part.FormName() {
		case "c":
			if it.IsURL {
				continue
			}

			buf, err := io.ReadAll(part)
			if err != nil {
				return it, fmt.Errorf("io.ReadAll(part). %w", err)
			}
			if len(buf) == 0 {
				continue
			}

			it.Content = buf
			it.Digest = ident.Digest(it.Content, salt)
			it.Filename = part.FileName()
			it.Mimetype, ext = classify.Detect(it.Content)

		case "u":
			if len(it.Content) > 0 && !it.IsURL {
				return it, ErrContentConflict
			}

			buf, err := io.ReadAll(part)
			if err != nil {
				return it, fmt.Errorf("io.ReadAll(part). %w", err)
			}

			target := strings.TrimSpace(string(buf))
			if target == "" {
				continue
			}

			it.IsURL = true
			it.Content = []byte(target)
			it.Digest = ident.Digest(it.Content, salt)
			it.Mimetype = "text/uri-list"

		case "destruct":
			buf, err := io.ReadAll(part)
			if err != nil {
				return it, fmt.Errorf("io.ReadAll(part). %w", err)
			}
			if len(buf) == 0 {
				continue
			}

			it.Destruct, err = strconv.ParseBool(strings.TrimSpace(string(buf)))
			if err != nil {
				return it, fmt.Errorf("%w: destruct %q", ErrMalformedField, string(buf))
			}

		case "private":
			buf, err := io.ReadAll(part)
			if err != nil {
				return it, fmt.Errorf("io.ReadAll(part). %w", err)
			}
			if len(buf) == 0 {
				continue
			}

			it.Private, err = strconv.ParseBool(strings.TrimSpace(string(buf)))
			if err != nil {
				return it, fmt.Errorf("%w: private %q", ErrMalformedField, string(buf))
			}

		case "sunset":
			buf, err := io.ReadAll(part)
			if err != nil {
				return it, fmt.Errorf("io.ReadAll(part). %w", err)
			}
			if len(buf) == 0 {
				continue
			}

			minutes, err := strconv.ParseInt(strings.TrimSpace(string(buf)), 10, 64)
			if err != nil {
				return it, fmt.Errorf("%w: sunset %q", ErrMalformedField, string(buf))
			}

			it.Sunset = time.Now().UTC().Add(time.Duration(minutes) * time.Minute)

		case "label":
			buf, err := io.ReadAll(part)
			if err != nil {
				return it, fmt.Errorf("io.ReadAll(part). %w", err)
			}
			if len(buf) == 0 {
				continue
			}

			label := string(buf)
			if strings.HasPrefix(label, LabelSigil) {
				it.Label = label
			} else {
				it.Label = LabelSigil + label
			}

		default:
			return it, fmt.Errorf("%w: %q", ErrUnknownField, part.FormName())
		}
	}

	if it.Label == "" {
		it.Label = ident.Label(it.ID)
	}

	if it.Filename == "" {
		if ext != "" {
			it.Filename = fmt.Sprintf("%s.%s", it.Label, ext)
		} else {
			it.Filename = strings.TrimPrefix(it.Label, LabelSigil)
		}
	}

	// Reference point for the destruct grace window.
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now().UTC()
	}

	return it, nil
}

// URL renders the externally visible address: private items only get
// their digest form, public ones their label form.
func (it Item) URL(base string) string {
	if it.Private {
		return fmt.Sprintf("https://%s/%s%s", base, DigestSigil, it.Digest)
	}
	return fmt.Sprintf("https://%s/%s", base, it.Label)
}
