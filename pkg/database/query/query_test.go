package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateQuery(t *testing.T) {
	query, args := PaginateQuery("SELECT id FROM t WHERE (owner = $1)", []interface{}{"a"}, ToCursor(5), 10, Ascending)
	assert.Equal(t, "SELECT id FROM t WHERE (owner = $1) AND id > $2 ORDER BY id ASC LIMIT $3", query)
	assert.Equal(t, []interface{}{"a", uint64(5), uint64(10)}, args)

	query, args = PaginateQuery("SELECT id FROM t WHERE (owner = $1)", []interface{}{"a"}, nil, 0, Descending)
	assert.Equal(t, "SELECT id FROM t WHERE (owner = $1) ORDER BY id DESC", query)
	assert.Equal(t, []interface{}{"a"}, args)
}

func TestPaginate(t *testing.T) {
	items := []uint64{4, 1, 3, 2, 5}
	idOf := func(v uint64) uint64 { return v }

	assert.Equal(t, []uint64{1, 2}, Paginate(items, idOf, nil, 2, Ascending))
	assert.Equal(t, []uint64{3, 4, 5}, Paginate(items, idOf, ToCursor(2), 0, Ascending))
	assert.Equal(t, []uint64{5, 4}, Paginate(items, idOf, nil, 2, Descending))
	assert.Equal(t, []uint64{2, 1}, Paginate(items, idOf, ToCursor(3), 5, Descending))
	assert.Empty(t, Paginate(items, idOf, ToCursor(5), 5, Ascending))
}

func TestCursorAndLimit(t *testing.T) {
	cursor := ToCursor(42)
	decoded, err := CursorFromBase58(cursor.ToBase58())
	require.NoError(t, err)
	assert.EqualValues(t, 42, decoded.ToUint64())

	empty, err := CursorFromBase58("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = CursorFromBase58("2")
	assert.Error(t, err)

	limit, err := CheckLimit(0)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultLimit, limit)

	_, err = CheckLimit(MaxLimit + 1)
	assert.Equal(t, ErrInvalidLimit, err)

	ordering, err := ToOrdering("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, ordering)
	_, err = ToOrdering("sideways")
	assert.Error(t, err)
}

func TestDefaultPaginationHandler(t *testing.T) {
	req, err := DefaultPaginationHandler()
	require.NoError(t, err)
	assert.EqualValues(t, DefaultLimit, req.Limit)
	assert.Equal(t, Ascending, req.SortBy)
	assert.Empty(t, req.Cursor)

	req, err = DefaultPaginationHandler(WithLimit(5), WithDirection(Descending), WithCursor(ToCursor(9)))
	require.NoError(t, err)
	assert.EqualValues(t, 5, req.Limit)
	assert.Equal(t, Descending, req.SortBy)
	assert.EqualValues(t, 9, req.Cursor.ToUint64())

	_, err = DefaultPaginationHandler(WithLimit(MaxLimit + 1))
	assert.Equal(t, ErrInvalidLimit, err)

	restricted := QueryOptions{Supported: CanLimitResults}
	assert.Equal(t, ErrQueryNotSupported, restricted.Apply(WithDirection(Descending)))
}
