package query

import (
	"encoding/binary"
	"sort"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var ErrInvalidLimit = errors.New("limit exceeds maximum page size")

// Cursor is an opaque position within a result set, encoding the id of the
// last returned record.
type Cursor []byte

var EmptyCursor = Cursor([]byte{})

func ToCursor(val uint64) Cursor {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, val)
	return b
}

func (c Cursor) ToUint64() uint64 {
	if len(c) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(c)
}

func (c Cursor) ToBase58() string {
	return base58.Encode(c)
}

func CursorFromBase58(val string) (Cursor, error) {
	if len(val) == 0 {
		return EmptyCursor, nil
	}

	decoded, err := base58.Decode(val)
	if err != nil {
		return nil, errors.Wrap(err, "invalid cursor encoding")
	}
	if len(decoded) != 8 {
		return nil, errors.New("invalid cursor length")
	}
	return decoded, nil
}

// Ordering is the direction of a returned set of records.
type Ordering uint

const (
	Ascending Ordering = iota
	Descending
)

func ToOrdering(val string) (Ordering, error) {
	switch val {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return 0, errors.Errorf("unexpected ordering: %v", val)
	}
}

// CheckLimit applies the default page size to a zero limit and rejects
// oversized pages.
func CheckLimit(limit uint64) (uint64, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit > MaxLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}

// PaginateQuery appends id based cursor, ordering and limit clauses to a
// query of the form "SELECT ... WHERE (...)".
func PaginateQuery(query string, args []interface{}, cursor Cursor, limit uint64, direction Ordering) (string, []interface{}) {
	if len(cursor) > 0 {
		position := strconv.Itoa(len(args) + 1)
		if direction == Ascending {
			query += " AND id > $" + position
		} else {
			query += " AND id < $" + position
		}
		args = append(args, cursor.ToUint64())
	}

	if direction == Ascending {
		query += " ORDER BY id ASC"
	} else {
		query += " ORDER BY id DESC"
	}

	if limit > 0 {
		query += " LIMIT $" + strconv.Itoa(len(args)+1)
		args = append(args, limit)
	}

	return query, args
}

// Paginate is the in memory equivalent of PaginateQuery.
func Paginate[T any](items []T, idOf func(T) uint64, cursor Cursor, limit uint64, direction Ordering) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if direction == Ascending {
			return idOf(sorted[i]) < idOf(sorted[j])
		}
		return idOf(sorted[i]) > idOf(sorted[j])
	})

	var res []T
	for _, item := range sorted {
		if len(cursor) > 0 {
			if direction == Ascending && idOf(item) <= cursor.ToUint64() {
				continue
			}
			if direction == Descending && idOf(item) >= cursor.ToUint64() {
				continue
			}
		}

		res = append(res, item)
		if limit > 0 && uint64(len(res)) >= limit {
			break
		}
	}
	return res
}
