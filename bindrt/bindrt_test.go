package bindrt_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/enginebind/bindrt"
	"github.com/teranos/enginebind/bindrt/enginetest"
	"github.com/teranos/enginebind/errors"
)

type table struct {
	Node__class_constructor bindrt.Constructor
	Node__get_name          bindrt.MethodBind
}

func bindTable(e bindrt.Engine, t *table) error {
	r := bindrt.NewResolver(e)
	t.Node__class_constructor = r.Constructor("Node", true)
	t.Node__get_name = r.Method("Node", "get_name")
	return r.Err()
}

func newEngine() *enginetest.Engine {
	return enginetest.New(
		enginetest.Class{Name: "Object", Instantiable: true},
		enginetest.Class{Name: "Reference", Base: "Object", Instantiable: true},
		enginetest.Class{
			Name:         "Node",
			Base:         "Object",
			Instantiable: true,
			Methods: map[string]bindrt.MethodBindFunc{
				"get_name": func(self bindrt.Ptr, args ...bindrt.Variant) bindrt.Variant { return "node" },
			},
		},
		enginetest.Class{Name: "_Engine", Base: "Object"},
	)
}

func TestGateInitOnce(t *testing.T) {
	e := newEngine()
	var gate bindrt.Gate[table]

	const goroutines = 32
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = gate.Init(e, bindTable)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, bindrt.Ready, gate.State())
	assert.EqualValues(t, 1, e.ConstructorLookups.Load(), "constructor resolved once")
	assert.EqualValues(t, 1, e.MethodLookups.Load(), "method resolved once")

	tbl := gate.MustTable()
	ret := bindrt.Call(tbl.Node__get_name, "Node.get_name", 1)
	assert.Equal(t, "node", bindrt.As[string](ret))
}

func TestGateFailureIsRemembered(t *testing.T) {
	e := enginetest.New(enginetest.Class{Name: "Object"})
	var gate bindrt.Gate[table]

	err := gate.Init(e, bindTable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolved))
	assert.Contains(t, err.Error(), "Node.class_constructor")
	assert.Contains(t, err.Error(), "Node.get_name")
	assert.Equal(t, bindrt.Failed, gate.State())

	again := gate.Init(newEngine(), bindTable)
	assert.Equal(t, err, again, "failed population is not retried")
	assert.EqualValues(t, 1, e.MethodLookups.Load())

	_, terr := gate.Table()
	assert.True(t, errors.Is(terr, errors.ErrNotBound))
}

func TestGateBeforeInit(t *testing.T) {
	var gate bindrt.Gate[table]
	assert.Equal(t, bindrt.Uninitialized, gate.State())
	assert.Panics(t, func() { gate.MustTable() })
	assert.Panics(t, func() { gate.Engine() })
}

func TestGateNilEngine(t *testing.T) {
	var gate bindrt.Gate[table]
	err := gate.Init(nil, bindTable)
	assert.True(t, errors.Is(err, errors.ErrNotBound))
	assert.Equal(t, bindrt.Failed, gate.State())
}

func TestGatePanicBecomesError(t *testing.T) {
	var gate bindrt.Gate[table]
	err := gate.Init(newEngine(), func(bindrt.Engine, *table) error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, bindrt.Failed, gate.State())
}

func TestResolverOptionalConstructor(t *testing.T) {
	e := enginetest.New(enginetest.Class{Name: "Texture"})
	r := bindrt.NewResolver(e)
	assert.Nil(t, r.Constructor("Texture", false))
	assert.NoError(t, r.Err(), "non-instantiable classes do not require a constructor")
}

func TestCallNilSlotPanics(t *testing.T) {
	assert.PanicsWithError(t, "Node.get_name.<nil method bind>: unresolved engine binding", func() {
		bindrt.Call(nil, "Node.get_name", 1)
	})
}

func TestAs(t *testing.T) {
	assert.Equal(t, int64(0), bindrt.As[int64](nil))
	assert.Equal(t, int64(7), bindrt.As[int64](int64(7)))
	assert.Equal(t, bindrt.Ptr(3), bindrt.AsPtr(bindrt.Ptr(3)))
	assert.Panics(t, func() { bindrt.As[int64]("seven") })
}

func TestRefcountLifecycle(t *testing.T) {
	e := newEngine()
	ctor := e.ClassConstructor("Reference")

	h := bindrt.ConstructRef(e, ctor, "Reference")
	p := h.Ptr()
	assert.EqualValues(t, 1, e.RefCount(p))

	bindrt.Retain(e, h)
	assert.EqualValues(t, 2, e.RefCount(p))

	assert.False(t, bindrt.ReleaseRef(e, h))
	assert.EqualValues(t, 1, e.RefCount(p))
	assert.True(t, e.Alive(p))

	assert.True(t, bindrt.ReleaseRef(e, h))
	assert.False(t, e.Alive(p))
	assert.EqualValues(t, 1, e.Destroys.Load())
}

func TestAcquireTakesShare(t *testing.T) {
	e := newEngine()
	p := e.Instantiate("Reference")
	e.Reference(p)

	h := bindrt.Acquire(e, p)
	assert.Equal(t, p, h.Ptr())
	assert.EqualValues(t, 2, e.RefCount(p))

	adopted := bindrt.Adopt(p)
	assert.EqualValues(t, 2, e.RefCount(adopted.Ptr()), "adopt does not change the count")

	assert.True(t, bindrt.Acquire(e, 0).IsNull())
}

func TestManualLifecycle(t *testing.T) {
	e := newEngine()
	h := bindrt.ConstructOwned(e.ClassConstructor("Node"), "Node")
	assert.Equal(t, bindrt.Unique, h.Access())

	bindrt.Free(e, h)
	assert.False(t, e.Alive(h.Ptr()))
	assert.EqualValues(t, 1, e.Destroys.Load())

	bindrt.Free(e, bindrt.Handle{})
	assert.EqualValues(t, 1, e.Destroys.Load(), "freeing null is a no-op")
}

func TestConstructWithoutConstructorPanics(t *testing.T) {
	assert.Panics(t, func() { bindrt.ConstructOwned(nil, "Texture") })
}

func TestSingletonCreatedOnce(t *testing.T) {
	e := newEngine()
	want := e.RegisterSingleton("Engine", "_Engine")

	var s bindrt.Singleton[bindrt.Handle]
	load := func() bindrt.Handle { return bindrt.Borrow(e.Singleton("Engine")) }

	var wg sync.WaitGroup
	got := make([]bindrt.Handle, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = s.Get(load)
		}()
	}
	wg.Wait()

	for _, h := range got {
		assert.Equal(t, want, h.Ptr())
	}
	assert.EqualValues(t, 1, e.SingletonLookups.Load())
}

func TestCast(t *testing.T) {
	e := newEngine()
	node := bindrt.Borrow(e.Instantiate("Node"))
	ref := bindrt.Borrow(e.Instantiate("Reference"))

	got, ok := bindrt.Cast(e, node, "Node")
	assert.True(t, ok)
	assert.Equal(t, node, got)

	_, ok = bindrt.Cast(e, node, "Object")
	assert.True(t, ok, "upcast through the dynamic type succeeds")

	_, ok = bindrt.Cast(e, ref, "Node")
	assert.False(t, ok)

	_, ok = bindrt.Cast(e, bindrt.Handle{}, "Node")
	assert.False(t, ok)

	_, ok = bindrt.Cast(e, nil, "Node")
	assert.False(t, ok)
}

func TestAccessString(t *testing.T) {
	assert.Equal(t, "unique", bindrt.Unique.String())
	assert.Equal(t, "shared", bindrt.Shared.String())
	assert.Equal(t, "ready", bindrt.Ready.String())
	assert.Equal(t, "State(9)", bindrt.State(9).String())
}
