package web

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

const (
	cursorQueryParam    = "cursor"
	limitQueryParam     = "limit"
	directionQueryParam = "direction"

	nextCursorJsonKey = "next_cursor"
)

// pagingOptions reads the optional cursor, limit and direction query
// parameters
func pagingOptions(req *apiRequest) ([]query.Option, error) {
	values := req.http.URL.Query()

	var opts []query.Option
	if raw := values.Get(cursorQueryParam); len(raw) > 0 {
		cursor, err := query.CursorFromBase58(raw)
		if err != nil {
			return nil, badRequest(err)
		}
		opts = append(opts, query.WithCursor(cursor))
	}

	if raw := values.Get(limitQueryParam); len(raw) > 0 {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, badRequest(errors.New("limit is not a number"))
		}
		if _, err := query.CheckLimit(limit); err != nil {
			return nil, badRequest(err)
		}
		opts = append(opts, query.WithLimit(limit))
	}

	if raw := values.Get(directionQueryParam); len(raw) > 0 {
		direction, err := query.ToOrdering(raw)
		if err != nil {
			return nil, badRequest(err)
		}
		opts = append(opts, query.WithDirection(direction))
	}

	return opts, nil
}

func setNextCursor(body GenericApiResponseBody, lastId uint64) {
	body[nextCursorJsonKey] = query.ToCursor(lastId).ToBase58()
}

func parseUintParam(req *apiRequest, name string, bitSize int) (uint64, error) {
	raw, err := req.queryParam(name)
	if err != nil {
		return 0, badRequest(err)
	}
	value, err := strconv.ParseUint(raw, 10, bitSize)
	if err != nil {
		return 0, badRequest(errors.Errorf("%s is not a number", name))
	}
	return value, nil
}
