package query

import "github.com/pkg/errors"

var ErrQueryNotSupported = errors.New("the requested query option is not supported")

type SupportedOptions uint

const (
	CanLimitResults SupportedOptions = 1 << iota
	CanSortBy
	CanQueryByCursor
)

// QueryOptions collects the paging knobs a list call was given.
type QueryOptions struct {
	Supported SupportedOptions

	SortBy Ordering
	Limit  uint64
	Cursor Cursor
}

type Option func(*QueryOptions) error

func (qo *QueryOptions) check(cap SupportedOptions) bool {
	return qo.Supported&cap != cap
}

func (qo *QueryOptions) Apply(opts ...Option) error {
	for _, o := range opts {
		if err := o(qo); err != nil {
			return err
		}
	}
	return nil
}

func WithDirection(val Ordering) Option {
	return func(qo *QueryOptions) error {
		if qo.check(CanSortBy) {
			return ErrQueryNotSupported
		}
		qo.SortBy = val
		return nil
	}
}

func WithLimit(val uint64) Option {
	return func(qo *QueryOptions) error {
		if qo.check(CanLimitResults) {
			return ErrQueryNotSupported
		}
		qo.Limit = val
		return nil
	}
}

func WithCursor(val []byte) Option {
	return func(qo *QueryOptions) error {
		if qo.check(CanQueryByCursor) {
			return ErrQueryNotSupported
		}
		qo.Cursor = val
		return nil
	}
}

// DefaultPaginationHandler applies opts over an ascending, DefaultLimit
// sized page and rejects limits above MaxLimit.
func DefaultPaginationHandler(opts ...Option) (*QueryOptions, error) {
	req := QueryOptions{
		Limit:     DefaultLimit,
		SortBy:    Ascending,
		Supported: CanLimitResults | CanSortBy | CanQueryByCursor,
	}
	if err := req.Apply(opts...); err != nil {
		return nil, err
	}

	limit, err := CheckLimit(req.Limit)
	if err != nil {
		return nil, err
	}
	req.Limit = limit

	return &req, nil
}
