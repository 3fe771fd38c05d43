package framearena

import (
	"fmt"
	"slices"
	"unsafe"
)

type vec3 struct {
	X, Y, Z float32
}

// Example demonstrates basic arena usage
func Example() {
	a := NewArena(1)
	g := a.Guard()

	// Single values, slices and strings are copied into the arena
	p := New(g, vec3{1, 2, 3})
	xs := CopySlice(g, []int32{1, 2, 3})
	name := CopyString(g, "player")
	fmt.Println(*p, xs, name)

	// Vectors grow like slices and keep their capacity across frames
	v := NewVec[int64](g)
	v.Push(10)
	v.Push(20)
	fmt.Println(v.Len(), v.Slice())

	fmt.Printf("Memory in use: %d bytes\n", a.SizeInUse())

	// Everything above is invalid after the reset
	a.Reset(2)
	fmt.Printf("After reset, seq %d, memory in use: %d bytes\n", a.Seq(), a.SizeInUse())

	// Output:
	// {1 2 3} [1 2 3] player
	// 2 [10 20]
	// Memory in use: 30 bytes
	// After reset, seq 2, memory in use: 0 bytes
}

// ExampleSink demonstrates contiguous appends
func ExampleSink() {
	a := NewArena(1)
	s := NewSink[vec3](a.Guard())
	for i := 0; i < 3; i++ {
		s.Push(vec3{X: float32(i)})
	}
	fmt.Println(s.IntoSlice())

	// Output:
	// [{0 0 0} {1 0 0} {2 0 0}]
}

// ExampleCollect demonstrates that the length hint is only a capacity hint
func ExampleCollect() {
	a := NewArena(1)
	g := a.Guard()

	short := Collect(g, 8, slices.Values([]uint8{1, 2, 3}))
	long := Collect(g, 2, slices.Values([]uint8{4, 5, 6}))
	fmt.Println(short, long)
	fmt.Printf("Memory in use: %d bytes\n", a.SizeInUse())

	// Output:
	// [1 2 3] [4 5]
	// Memory in use: 5 bytes
}

// ExampleArena_Reset demonstrates arena reuse across frames
func ExampleArena_Reset() {
	a := NewArena(1, WithChunkSize(64))

	for seq := uint64(1); seq <= 3; seq++ {
		if seq > 1 {
			a.Reset(seq)
		}
		for i := 0; i < 5; i++ {
			New(a.Guard(), int64(i))
		}
		fmt.Printf("Frame %d - Memory in use: %d bytes, chunks: %d\n", seq, a.SizeInUse(), a.NumChunks())
	}

	// Output:
	// Frame 1 - Memory in use: 40 bytes, chunks: 1
	// Frame 2 - Memory in use: 40 bytes, chunks: 1
	// Frame 3 - Memory in use: 40 bytes, chunks: 1
}

// ExampleStamp demonstrates generation checked references
func ExampleStamp() {
	a := NewArena(1)
	r := Stamp(a, New(a.Guard(), vec3{X: 1}))

	p, err := r.Get()
	fmt.Println(p.X, err)

	a.Reset(2)
	_, err = r.Get()
	fmt.Println(err)

	// Output:
	// 1 <nil>
	// framearena: stamped 1, arena at 2: stale arena reference
}

// ExampleArena_alignment demonstrates that allocations are properly aligned
func ExampleArena_alignment() {
	g := NewArena(1).Guard()

	ptr1 := New(g, int8(1))
	ptr2 := New(g, int64(2))
	ptr3 := New(g, int32(3))
	buf := g.AllocBytes(64, 16)

	fmt.Printf("int8 address alignment: %d\n", uintptr(unsafe.Pointer(ptr1))%1)
	fmt.Printf("int64 address alignment: %d\n", uintptr(unsafe.Pointer(ptr2))%8)
	fmt.Printf("int32 address alignment: %d\n", uintptr(unsafe.Pointer(ptr3))%4)
	fmt.Printf("16 byte buffer alignment: %d\n", uintptr(unsafe.Pointer(&buf[0]))%16)

	// Output:
	// int8 address alignment: 0
	// int64 address alignment: 0
	// int32 address alignment: 0
	// 16 byte buffer alignment: 0
}
