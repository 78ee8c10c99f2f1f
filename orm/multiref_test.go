package orm

import (
	"testing"

	"github.com/iov-one/estate/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMultiRef(t *testing.T) {
	Convey("Given a multiref with two references", t, func() {
		m, err := NewMultiRef([]byte("b"), []byte("a"))
		So(err, ShouldBeNil)

		Convey("references are kept sorted", func() {
			So(m.GetRefs(), ShouldResemble, [][]byte{[]byte("a"), []byte("b")})
		})

		Convey("adding a duplicate fails", func() {
			So(errors.ErrDuplicate.Is(m.Add([]byte("a"))), ShouldBeTrue)
		})

		Convey("inserting in the middle keeps the order", func() {
			So(m.Add([]byte("ab")), ShouldBeNil)
			So(m.GetRefs(), ShouldResemble, [][]byte{[]byte("a"), []byte("ab"), []byte("b")})
		})

		Convey("it survives serialization", func() {
			raw, err := m.Marshal()
			So(err, ShouldBeNil)
			var got MultiRef
			So(got.Unmarshal(raw), ShouldBeNil)
			So(got.GetRefs(), ShouldResemble, m.GetRefs())
		})

		Convey("removing all references makes it invalid", func() {
			So(m.Remove([]byte("a")), ShouldBeNil)
			So(m.Remove([]byte("b")), ShouldBeNil)
			So(errors.ErrNotFound.Is(m.Remove([]byte("b"))), ShouldBeTrue)
			So(errors.ErrEmpty.Is(m.Validate()), ShouldBeTrue)
		})
	})
}

func TestPrefixRange(t *testing.T) {
	Convey("prefixRange computes the exclusive end", t, func() {
		start, end := prefixRange([]byte{1, 2})
		So(start, ShouldResemble, []byte{1, 2})
		So(end, ShouldResemble, []byte{1, 3})

		_, end = prefixRange([]byte{1, 255})
		So(end, ShouldResemble, []byte{2, 0})

		_, end = prefixRange([]byte{255, 255})
		So(end, ShouldBeNil)

		start, end = prefixRange(nil)
		So(start, ShouldBeNil)
		So(end, ShouldBeNil)
	})
}
