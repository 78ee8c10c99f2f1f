package weave

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tendermint/tendermint/libs/log"
)

func TestBlockContext(t *testing.T) {
	Convey("Given an empty context", t, func() {
		ctx := context.Background()

		Convey("the default logger is used", func() {
			So(GetLogger(ctx), ShouldEqual, DefaultLogger)
			logger := log.NewTMLogger(ioutil.Discard)
			So(GetLogger(WithLogger(ctx, logger)), ShouldEqual, logger)
		})

		Convey("no block information is present", func() {
			h, ok := GetHeight(ctx)
			So(ok, ShouldBeFalse)
			So(h, ShouldEqual, 0)
			_, ok = BlockTime(ctx)
			So(ok, ShouldBeFalse)
			So(GetChainID(ctx), ShouldEqual, "")
		})

		Convey("block information is written once", func() {
			now := time.Now()
			block := WithChainID(WithBlockTime(WithHeight(ctx, 7), now), "estate-test")

			h, ok := GetHeight(block)
			So(ok, ShouldBeTrue)
			So(h, ShouldEqual, 7)
			bt, ok := BlockTime(block)
			So(ok, ShouldBeTrue)
			So(bt, ShouldResemble, now)
			So(GetChainID(block), ShouldEqual, "estate-test")

			So(func() { WithHeight(block, 8) }, ShouldPanic)
			So(func() { WithChainID(block, "estate-test") }, ShouldPanic)
		})

		Convey("an invalid chain id is rejected", func() {
			So(func() { WithChainID(ctx, "no") }, ShouldPanic)
		})

		Convey("log info creates a new logger and keeps the block", func() {
			block := WithHeight(WithLogger(ctx, log.NewTMLogger(ioutil.Discard)), 3)
			tagged := WithLogInfo(block, "asset", 1)
			So(GetLogger(tagged), ShouldNotEqual, GetLogger(block))
			h, _ := GetHeight(tagged)
			So(h, ShouldEqual, 3)
		})
	})
}

func TestIsValidChainID(t *testing.T) {
	cases := map[string]bool{
		"":                             false,
		"abc":                          false,
		"estate":                       true,
		"estate-MAIN-01":               true,
		"bad;;chars":                   false,
		"chain-id-longer-than-allowed": false,
	}
	for chainID, want := range cases {
		if got := IsValidChainID(chainID); got != want {
			t.Errorf("%q: want %v, got %v", chainID, want, got)
		}
	}
}
