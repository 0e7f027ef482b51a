package transaction

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestTxnIDGenerator(t *testing.T) {
	Convey("Given a transaction id generator", t, func() {
		g := NewTxnIDGenerator(nil, TxnIDPrefix)

		Convey("When generating many ids", func() {
			const n = 1000
			seen := make(map[string]struct{}, n)
			var ids []string
			for i := 0; i < n; i++ {
				id, err := g.Generate()
				So(err, ShouldBeNil)
				ids = append(ids, id)
				seen[id] = struct{}{}
			}

			Convey("Every id should be BT followed by 12 upper case alphanumerics", func() {
				for _, id := range ids {
					So(len(id), ShouldEqual, 14)
					So(id, ShouldStartWith, "BT")
					So(id, ShouldEqual, strings.ToUpper(id))
					So(ValidTxnID(id, TxnIDPrefix), ShouldBeTrue)
				}
			})
			Convey("The ids should be distinct", func() {
				So(len(seen), ShouldEqual, n)
			})
		})

		Convey("Given a lower case prefix", func() {
			g = NewTxnIDGenerator(nil, "bt")
			id, err := g.Generate()
			So(err, ShouldBeNil)

			Convey("The id should be upper case", func() {
				So(id, ShouldStartWith, "BT")
			})
		})
	})

	Convey("Given two generators with the same deterministic source", t, func() {
		g1 := NewTxnIDGenerator(rand.New(rand.NewSource(42)), TxnIDPrefix)
		g2 := NewTxnIDGenerator(rand.New(rand.NewSource(42)), TxnIDPrefix)

		Convey("They should generate the same ids", func() {
			for i := 0; i < 10; i++ {
				id1, err := g1.Generate()
				So(err, ShouldBeNil)
				id2, err := g2.Generate()
				So(err, ShouldBeNil)
				So(id1, ShouldEqual, id2)
			}
		})
	})

	Convey("Given a source which only returns biased bytes", t, func() {
		g := NewTxnIDGenerator(bytes.NewReader(bytes.Repeat([]byte{255}, 64)), TxnIDPrefix)

		Convey("When the source is exhausted", func() {
			_, err := g.Generate()
			Convey("It should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a failing source", t, func() {
		g := NewTxnIDGenerator(errReader{}, TxnIDPrefix)
		_, err := g.Generate()
		Convey("It should return an error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidTxnID(t *testing.T) {
	Convey("Given transaction ids", t, func() {
		So(ValidTxnID("BT0123456789AB", "BT"), ShouldBeTrue)
		So(ValidTxnID("BT0123456789ab", "BT"), ShouldBeFalse)
		So(ValidTxnID("XX0123456789AB", "BT"), ShouldBeFalse)
		So(ValidTxnID("BT0123", "BT"), ShouldBeFalse)
	})
}
