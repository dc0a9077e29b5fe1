package rootpool

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/kestrelvm/rootpool/cell"
)

func TestHandleZeroValueIsInvalid(t *testing.T) {
	Convey("Given a zero-value Handle", t, func() {
		var h Handle[int]

		Convey("Valid should report false", func() {
			So(h.Valid(), ShouldBeFalse)
		})

		Convey("Release should be a safe no-op", func() {
			So(func() { h.Release() }, ShouldNotPanic)
		})
	})
}

func TestHandleGetSetRoundTrip(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	defer a.Close()

	Convey("Given a handle allocated with a value", t, func() {
		h := Allocate(a, 42)
		So(h.Valid(), ShouldBeTrue)
		So(h.Get(), ShouldEqual, 42)

		Convey("Set should overwrite the value in place", func() {
			h.Set(99)
			So(h.Get(), ShouldEqual, 99)
		})
	})
}

func TestHandleReleaseInvalidatesAndFreesSlot(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	defer a.Close()

	Convey("Given an allocated handle", t, func() {
		h := Allocate(a, 7)
		So(a.LiveCount(), ShouldEqual, 1)

		Convey("Release should invalidate it and return the slot to the pool", func() {
			h.Release()
			So(h.Valid(), ShouldBeFalse)
			So(a.LiveCount(), ShouldEqual, 0)

			Convey("a second Release should be a harmless no-op", func() {
				So(func() { h.Release() }, ShouldNotPanic)
			})
		})
	})
}

func TestHandleTakeMovesOwnership(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	defer a.Close()

	Convey("Given an allocated handle", t, func() {
		h := Allocate(a, 7)

		Convey("Take should produce a handle with the same value and invalidate the source", func() {
			moved := h.Take()
			So(h.Valid(), ShouldBeFalse)
			So(moved.Valid(), ShouldBeTrue)
			So(moved.Get(), ShouldEqual, 7)
			moved.Release()
		})
	})
}

func TestHandleMoveFromReleasesPriorSlot(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	defer a.Close()

	Convey("Given two allocated handles", t, func() {
		dst := Allocate(a, 1)
		src := Allocate(a, 2)
		So(a.LiveCount(), ShouldEqual, 2)

		Convey("MoveFrom should free dst's old slot and invalidate src", func() {
			dst.MoveFrom(&src)

			So(src.Valid(), ShouldBeFalse)
			So(dst.Valid(), ShouldBeTrue)
			So(dst.Get(), ShouldEqual, 2)
			So(a.LiveCount(), ShouldEqual, 1)
		})
	})
}

func TestHandleInvalidAccessPanicsWithSentinel(t *testing.T) {
	Convey("Given a zero-value Handle", t, func() {
		var h Handle[int]

		Convey("Get should panic with ErrInvalidHandle", func() {
			So(func() { h.Get() }, ShouldPanicWith, ErrInvalidHandle)
		})

		Convey("Set should panic with ErrInvalidHandle", func() {
			So(func() { h.Set(1) }, ShouldPanicWith, ErrInvalidHandle)
		})

		Convey("RawCell should panic with ErrInvalidHandle", func() {
			So(func() { h.RawCell() }, ShouldPanicWith, ErrInvalidHandle)
		})
	})
}

func TestHandleDoubleReleaseThroughACopyPanics(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	defer a.Close()

	Convey("Given a handle copied by plain assignment, bypassing noCopy", t, func() {
		h1 := Allocate(a, 123)
		h2 := h1 // go vet would flag this; nothing stops it at runtime

		Convey("releasing both copies should panic on the second instead of corrupting the free list", func() {
			h1.Release()
			So(func() { h2.Release() }, ShouldPanicWith, ErrFreeListCorrupt)
		})
	})
}

func TestHandleRawCellExposesUnderlyingCell(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	defer a.Close()

	Convey("Given an allocated handle", t, func() {
		h := Allocate(a, 55)

		Convey("RawCell should decode to the same value as Get", func() {
			c := h.RawCell()
			So(c.IsNative(), ShouldBeFalse)
			So(cell.Decode[int](*c), ShouldEqual, h.Get())
			So(h.Get(), ShouldEqual, 55)
		})
	})
}
