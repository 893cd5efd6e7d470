package persist

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

// DBID is the unique identifier for all persisted records. IDs are ksuids,
// so lexical order follows creation order.
type DBID string

// GenerateID mints a new DBID.
func GenerateID() DBID {
	return DBID(ksuid.New().String())
}

func (d DBID) String() string {
	return string(d)
}

// Value implements the driver.Valuer interface for DBIDs
func (d DBID) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements the sql.Scanner interface for DBIDs
func (d *DBID) Scan(src interface{}) error {
	if src == nil {
		*d = DBID("")
		return nil
	}
	switch v := src.(type) {
	case string:
		*d = DBID(v)
	case []byte:
		*d = DBID(v)
	default:
		return fmt.Errorf("cannot scan %T into DBID", src)
	}
	return nil
}

// CreationTime marks when a record was created and never changes afterwards.
type CreationTime time.Time

// Time returns the underlying time.Time
func (c CreationTime) Time() time.Time {
	return time.Time(c)
}

// MarshalJSON implements the json.Marshaler interface
func (c CreationTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(c))
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (c *CreationTime) UnmarshalJSON(b []byte) error {
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*c = CreationTime(t)
	return nil
}

// Value implements the driver.Valuer interface
func (c CreationTime) Value() (driver.Value, error) {
	return time.Time(c), nil
}

// Scan implements the sql.Scanner interface
func (c *CreationTime) Scan(src interface{}) error {
	if src == nil {
		*c = CreationTime{}
		return nil
	}
	t, ok := src.(time.Time)
	if !ok {
		return fmt.Errorf("cannot scan %T into CreationTime", src)
	}
	*c = CreationTime(t)
	return nil
}

// LastUpdatedTime marks when a record was last modified.
type LastUpdatedTime time.Time

// Time returns the underlying time.Time
func (l LastUpdatedTime) Time() time.Time {
	return time.Time(l)
}

// MarshalJSON implements the json.Marshaler interface
func (l LastUpdatedTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(l))
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (l *LastUpdatedTime) UnmarshalJSON(b []byte) error {
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*l = LastUpdatedTime(t)
	return nil
}

// Value implements the driver.Valuer interface
func (l LastUpdatedTime) Value() (driver.Value, error) {
	return time.Time(l), nil
}

// Scan implements the sql.Scanner interface
func (l *LastUpdatedTime) Scan(src interface{}) error {
	if src == nil {
		*l = LastUpdatedTime{}
		return nil
	}
	t, ok := src.(time.Time)
	if !ok {
		return fmt.Errorf("cannot scan %T into LastUpdatedTime", src)
	}
	*l = LastUpdatedTime(t)
	return nil
}

// Action tags a user-initiated mutation that other parts of the system react
// to (notifications, auditing).
type Action string

const (
	ActionCommentedOnPost  Action = "CommentedOnPost"
	ActionRepliedToComment Action = "RepliedToComment"
	ActionSavedPost        Action = "SavedPost"
	ActionDeletedComment   Action = "DeletedComment"
)
