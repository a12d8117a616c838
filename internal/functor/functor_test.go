package functor_test

import (
	"testing"

	"github.com/bitboom/rmi/internal/functor"
	"github.com/bitboom/rmi/pkg/archive"
)

type Foo struct {
	name string
}

func (f *Foo) setName(name string) bool {
	prev := f.name
	f.name = name
	return prev != ""
}

func (f *Foo) getName() string {
	return f.name
}

func TestTypedRoundTrip(t *testing.T) {
	foo := &Foo{}

	setName, err := functor.NewFunctor1[Foo, bool, string](foo, (*Foo).setName)
	if err != nil {
		t.Fatalf("NewFunctor1: %v", err)
	}

	getName, err := functor.NewFunctor0[Foo, string](foo, (*Foo).getName)
	if err != nil {
		t.Fatalf("NewFunctor0: %v", err)
	}

	reg := functor.NewRegistry()
	reg.Expose("Foo::setName", setName)
	reg.Expose("Foo::getName", getName)

	setFn, err := reg.Lookup("Foo::setName")
	if err != nil {
		t.Fatalf("Lookup setName: %v", err)
	}

	in := archive.New()
	if err := archive.Pack(in, "RMI-TEST"); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	out, err := setFn.Invoke(in)
	if err != nil {
		t.Fatalf("Invoke setName: %v", err)
	}

	var first bool
	if err := archive.Unpack(out, &first); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if first != false {
		t.Errorf("setName reply = %v, want false", first)
	}

	getFn, err := reg.Lookup("Foo::getName")
	if err != nil {
		t.Fatalf("Lookup getName: %v", err)
	}

	out2, err := getFn.Invoke(archive.New())
	if err != nil {
		t.Fatalf("Invoke getName: %v", err)
	}

	var name string
	if err := archive.Unpack(out2, &name); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if name != "RMI-TEST" {
		t.Errorf("getName reply = %q, want %q", name, "RMI-TEST")
	}
}

func TestBadBinding(t *testing.T) {
	if _, err := functor.NewFunctor0[Foo, string](nil, (*Foo).getName); err == nil {
		t.Fatal("expected error binding nil instance")
	}
}

func TestUnknownMethod(t *testing.T) {
	reg := functor.NewRegistry()
	if _, err := reg.Lookup("nope"); err == nil {
		t.Fatal("expected ErrUnknownMethod")
	}
}
