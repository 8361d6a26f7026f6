// Package idwrap wraps ULIDs into a small value type used for every
// generated identifier in the system: script definitions, nodes and
// connections. The wrapper keeps the ULID dependency out of model
// packages and carries the sql/text codec hooks the storage and
// translate layers need.
package idwrap

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

type IDWrap struct {
	ulid ulid.ULID
}

func New(u ulid.ULID) IDWrap {
	return IDWrap{ulid: u}
}

// NewNow generates a fresh id from the current time.
func NewNow() IDWrap {
	return IDWrap{ulid: ulid.Make()}
}

func NewText(s string) (IDWrap, error) {
	u, err := ulid.Parse(s)
	if err != nil {
		return IDWrap{}, err
	}
	return IDWrap{ulid: u}, nil
}

func NewTextMust(s string) IDWrap {
	u, err := ulid.Parse(s)
	if err != nil {
		panic(err)
	}
	return IDWrap{ulid: u}
}

func NewFromBytes(data []byte) (IDWrap, error) {
	u := ulid.ULID{}
	err := u.UnmarshalBinary(data)
	return IDWrap{ulid: u}, err
}

func (u IDWrap) String() string {
	return u.ulid.String()
}

func (u IDWrap) Bytes() []byte {
	return u.ulid[:]
}

func (u IDWrap) Compare(o IDWrap) int {
	return u.ulid.Compare(o.ulid)
}

// IsZero reports whether the id is the zero value, which no generated
// id ever is.
func (u IDWrap) IsZero() bool {
	return u.ulid == ulid.ULID{}
}

func (u IDWrap) Time() time.Time {
	return time.UnixMilli(int64(u.ulid.Time()))
}

// MarshalText/UnmarshalText make ids round-trip as plain strings through
// the JSON and YAML wire forms.
func (u IDWrap) MarshalText() ([]byte, error) {
	return []byte(u.ulid.String()), nil
}

func (u *IDWrap) UnmarshalText(data []byte) error {
	parsed, err := ulid.Parse(string(data))
	if err != nil {
		return err
	}
	u.ulid = parsed
	return nil
}

// SQL driver value
func (u IDWrap) Value() (driver.Value, error) {
	return u.ulid.Value()
}

func (u *IDWrap) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("idwrap: cannot scan %T", value)
	}
	return u.ulid.UnmarshalBinary(b)
}
