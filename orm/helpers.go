package orm

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

// consumeIterator reads all remaining data into a slice and releases the
// iterator.
func consumeIterator(it weave.Iterator) ([]weave.Model, error) {
	defer it.Release()

	var res []weave.Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			res = append(res, weave.Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}
