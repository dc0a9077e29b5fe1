package cell

import (
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"
)

type overwideValue struct{ a, b, c uint64 }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	Convey("When encoding a value into a cell", t, func() {
		c := Encode(42)
		Convey("decoding it as the same type returns the original value", func() {
			So(Decode[int](c), ShouldEqual, 42)
		})
		Convey("it is not native", func() {
			So(c.IsNative(), ShouldBeFalse)
		})
		Convey("TryDecode with a type too wide to fit fails gracefully", func() {
			v, ok := TryDecode[overwideValue](c)
			So(ok, ShouldBeFalse)
			So(v, ShouldResemble, overwideValue{})
		})
	})
}

func TestNativePointerRoundTrip(t *testing.T) {
	Convey("When encoding a native pointer", t, func() {
		var x int
		p := unsafe.Pointer(&x)
		c := EncodeNativePointer(p)

		Convey("it decodes back to the same pointer", func() {
			So(DecodeNativePointer(c), ShouldEqual, p)
		})
		Convey("it reports itself as native", func() {
			So(c.IsNative(), ShouldBeTrue)
		})
		Convey("TryDecode treats it as absent for any value type", func() {
			_, ok := TryDecode[int](c)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEmptyCell(t *testing.T) {
	Convey("A zero-value Cell is empty and not native", t, func() {
		var c Cell
		So(c.IsEmpty(), ShouldBeTrue)
		So(c.IsNative(), ShouldBeFalse)
	})
}

func TestEncodeTooWidePanics(t *testing.T) {
	Convey("Encoding a value wider than a machine word panics", t, func() {
		So(func() { Encode(overwideValue{}) }, ShouldPanic)
	})
}

func TestDecodeTooWidePanics(t *testing.T) {
	Convey("Decoding as a type wider than a machine word panics", t, func() {
		c := Encode(42)
		So(func() { Decode[overwideValue](c) }, ShouldPanic)
	})
}

func TestDecodeNativePointerOnValueCellPanics(t *testing.T) {
	Convey("Decoding a value-tagged cell as a native pointer panics", t, func() {
		c := Encode(42)
		So(func() { DecodeNativePointer(c) }, ShouldPanic)
	})
}

func TestBoolRoundTripAlternating(t *testing.T) {
	Convey("Alternating bool values round-trip independently", t, func() {
		for i := 0; i < 4; i++ {
			want := i%2 == 0
			c := Encode(want)
			So(Decode[bool](c), ShouldEqual, want)
		}
	})
}
