package plink

import (
	"fmt"
	"time"
)

// Time exists to facilitate time parsing from the index Metadata, which
// stores unix time but may be read back as text by other SQLite tools or
// drivers. Derived from
// https://github.com/mattn/go-sqlite3/issues/190#issuecomment-343341834f
type Time time.Time

func (t *Time) Scan(v interface{}) error {
	switch which := v.(type) {
	case int64:
		vt := time.Unix(which, 0)
		*t = Time(vt)
		return nil
	case time.Time:
		*t = Time(which)
		return nil
	case string:
		return t.Scan([]byte(which))
	case []byte:
		// Should be more strictly to check this type.
		vt, err := time.Parse("2006-01-02 15:04:05", string(which))
		if err != nil {
			return err
		}
		*t = Time(vt)
		return nil
	}

	return fmt.Errorf("No appropriate type could be found to decode %v", v)
}

func (t Time) String() string {
	return time.Time(t).Format(time.RFC3339)
}
