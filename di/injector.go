// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package di

import (
	"reflect"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/internal/types"
	"github.com/mgukowsky/Omulator-sub000/internal/xsync"
	"github.com/mgukowsky/Omulator-sub000/log"
)

var injectorType = reflect.TypeFor[*Injector]()

// Injector resolves, constructs and caches instances of arbitrary types
// from a table of recipes.
//
// A top-level call to Get or Creat holds the injector lock for its whole
// duration. Recipes receive an *Injector bound to the resolution in progress;
// calls made through it from the goroutine running the recipe resolve on the
// same call stack without locking again. A goroutine started by a recipe that
// uses the view waits for the top-level call to finish, so a recipe must not
// wait on such a goroutine.
//
// Instances obtained through Get are released in the reverse order of their
// construction when the Injector is closed.
type Injector struct {
	state   *injectorState
	session *session
}

type injectorState struct {
	mu        sync.Mutex
	recipes   *xsync.Map[types.Identity, Recipe]
	instances *TypeMap
	upstream  *Injector
	logger    log.Logger
	closed    *atomic.Bool
}

// session is the per call stack resolution state. Only the goroutine that
// opened it may resolve through it.
type session struct {
	constructing mapset.Set[types.Identity]
	done         *atomic.Bool
	owner        uint64
}

// New creates a root Injector
func New(opts ...Option) *Injector {
	inj := &Injector{
		state: &injectorState{
			recipes:   xsync.NewMap[types.Identity, Recipe](),
			instances: NewTypeMap(),
			logger:    log.DiscardLogger,
			closed:    atomic.NewBool(false),
		},
	}

	for _, opt := range opts {
		opt.Apply(inj)
	}

	_ = EmplaceExternal(inj.state.instances, inj)
	return inj
}

// Child returns an Injector whose lookups fall back to this one.
// The child asks its upstream for an existing instance first. When neither holds
// one, the child builds it, using the upstream recipe when it has none of its own,
// and manages the result itself.
func (inj *Injector) Child() *Injector {
	child := New(WithLogger(inj.state.logger))
	child.state.upstream = &Injector{state: inj.state}
	return child
}

// IsRoot returns true when the Injector has no upstream
func (inj *Injector) IsRoot() bool {
	return inj.state.upstream == nil
}

// Logger returns the logger used by the Injector
func (inj *Injector) Logger() log.Logger {
	return inj.state.logger
}

// Get returns the unique instance of T, constructing it on first request.
// T must be a pointer or an interface type.
func Get[T any](inj *Injector) (T, error) {
	var zero T
	view, exit := inj.enter()
	defer exit()

	if inj.state.closed.Load() {
		return zero, gerrors.ErrInjectorClosed
	}

	value, err := view.get(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := value.Interface().(T)
	return out, nil
}

// MustGet is like Get but panics when the instance cannot be resolved
func MustGet[T any](inj *Injector) T {
	out, err := Get[T](inj)
	if err != nil {
		panic(err)
	}
	return out
}

// Creat returns a fresh instance of T that the Injector does not keep.
// Interface types are rejected.
func Creat[T any](inj *Injector) (T, error) {
	var zero T
	view, exit := inj.enter()
	defer exit()

	if inj.state.closed.Load() {
		return zero, gerrors.ErrInjectorClosed
	}

	value, err := view.creat(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := value.Interface().(T)
	return out, nil
}

// HasInstance returns true when the Injector itself holds an instance of T
func HasInstance[T any](inj *Injector) bool {
	return Has[T](inj.state.instances)
}

// AddRecipe registers fn as the recipe of T, replacing any earlier one
func AddRecipe[T any](inj *Injector, fn func(*Injector) (T, error)) {
	inj.addRecipe(NewRecipe(fn))
}

// AddRecipes registers the given recipes in order; later recipes win over earlier ones for the same type
func AddRecipes(inj *Injector, recipes ...Recipe) {
	for _, recipe := range recipes {
		inj.addRecipe(recipe)
	}
}

// AddCtorRecipe registers a constructor function as the recipe of its first return type.
func AddCtorRecipe(inj *Injector, ctor any) error {
	recipe, err := CtorRecipe(ctor)
	if err != nil {
		return err
	}
	inj.addRecipe(recipe)
	return nil
}

// BindImpl makes Get[I] return Get[Impl]. It must be called before the first Get[I].
func BindImpl[I, Impl any](inj *Injector) {
	implType := reflect.TypeFor[Impl]()
	AddRecipe(inj, func(view *Injector) (I, error) {
		var zero I
		value, err := view.get(implType)
		if err != nil {
			return zero, err
		}
		out, ok := value.Interface().(I)
		if !ok {
			return zero, gerrors.NewErrTypeMismatch(types.NameOf[I](), implType.String())
		}
		return out, nil
	})
}

// Close releases every instance owned by the Injector in the reverse order of construction
func (inj *Injector) Close() error {
	_, exit := inj.enter()
	defer exit()
	if !inj.state.closed.CompareAndSwap(false, true) {
		return nil
	}
	return inj.state.instances.Close()
}

// enter returns the view to resolve with. A view whose session is still running is
// reused as is by the goroutine owning the session; any other caller takes the
// injector lock and starts a new session.
func (inj *Injector) enter() (*Injector, func()) {
	if inj.session != nil && !inj.session.done.Load() && inj.session.owner == goroutineID() {
		return inj, func() {}
	}

	inj.state.mu.Lock()
	view := &Injector{
		state: inj.state,
		session: &session{
			constructing: mapset.NewThreadUnsafeSet[types.Identity](),
			done:         atomic.NewBool(false),
			owner:        goroutineID(),
		},
	}
	return view, func() {
		view.session.done.Store(true)
		inj.state.mu.Unlock()
	}
}

func (inj *Injector) addRecipe(recipe Recipe) {
	if _, replaced := inj.state.recipes.Set(types.Hash(recipe.rtype), recipe); replaced {
		inj.state.logger.Warnf("Overriding an existing recipe for %s", types.Name(recipe.rtype))
	}
}

func (inj *Injector) findRecipe(id types.Identity) (Recipe, bool) {
	if recipe, ok := inj.state.recipes.Get(id); ok {
		return recipe, true
	}
	if up := inj.state.upstream; up != nil {
		return up.findRecipe(id)
	}
	return Recipe{}, false
}

// get resolves the shared instance of rtype
func (inj *Injector) get(rtype reflect.Type) (reflect.Value, error) {
	if rtype == injectorType {
		return reflect.ValueOf(inj), nil
	}

	if kind := rtype.Kind(); kind != reflect.Pointer && kind != reflect.Interface {
		return reflect.Value{}, gerrors.NewErrInvalidTarget(rtype.String())
	}

	id := types.Hash(rtype)
	if c, ok := inj.state.instances.lookup(id); ok {
		return adapt(c.value, rtype)
	}

	if up := inj.state.upstream; up != nil {
		if c, ok := up.state.instances.lookup(id); ok {
			return adapt(c.value, rtype)
		}
	}

	value, err := inj.make(rtype, id)
	if err != nil {
		return reflect.Value{}, err
	}

	if err := inj.state.instances.emplace(rtype, value.Interface(), true); err != nil {
		return reflect.Value{}, err
	}
	inj.state.logger.Debugf("Created shared instance of %s", types.Name(rtype))
	return value, nil
}

// creat builds a fresh instance of rtype
func (inj *Injector) creat(rtype reflect.Type) (reflect.Value, error) {
	if rtype.Kind() == reflect.Interface {
		return reflect.Value{}, gerrors.NewErrAbstractType(rtype.String())
	}
	if rtype == injectorType {
		return reflect.ValueOf(inj.Child()), nil
	}
	return inj.make(rtype, types.Hash(rtype))
}

// make runs the recipe of rtype, or default-constructs it, guarding against cycles
func (inj *Injector) make(rtype reflect.Type, id types.Identity) (reflect.Value, error) {
	name := types.Name(rtype)
	if inj.session.constructing.Contains(id) {
		inj.state.logger.Errorf("Dependency cycle detected for type %s", name)
		return reflect.Value{}, gerrors.NewErrDependencyCycle(name)
	}
	inj.session.constructing.Add(id)
	defer inj.session.constructing.Remove(id)

	if recipe, ok := inj.findRecipe(id); ok {
		value, err := recipe.build(inj)
		if err != nil {
			return reflect.Value{}, err
		}
		return adapt(value, rtype)
	}

	if rtype.Kind() == reflect.Interface {
		return reflect.Value{}, gerrors.NewErrNoImplementation(name)
	}
	return construct(rtype)
}

// construct builds the zero value of rtype for the kinds that have a usable one
func construct(rtype reflect.Type) (reflect.Value, error) {
	base := types.Deref(rtype)
	switch base.Kind() {
	case reflect.Func, reflect.Chan, reflect.Map, reflect.Slice,
		reflect.UnsafePointer, reflect.Interface, reflect.Pointer, reflect.Invalid:
		return reflect.Value{}, gerrors.NewErrNoRecipe(rtype.String())
	}

	ptr := reflect.New(base)
	if rtype.Kind() == reflect.Pointer {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

// adapt converts a recipe product to the requested type: pointer and value forms
// of the same type are interchangeable, and interfaces accept their implementations.
func adapt(source any, want reflect.Type) (reflect.Value, error) {
	var value reflect.Value
	switch v := source.(type) {
	case reflect.Value:
		value = v
	default:
		value = reflect.ValueOf(v)
	}

	if !value.IsValid() {
		return reflect.Zero(want), nil
	}
	if value.Kind() == reflect.Interface {
		if value.IsNil() {
			return reflect.Zero(want), nil
		}
		value = value.Elem()
	}

	got := value.Type()
	switch {
	case got == want:
		return value, nil
	case want.Kind() == reflect.Interface && got.Implements(want):
		out := reflect.New(want).Elem()
		out.Set(value)
		return out, nil
	case want.Kind() == reflect.Pointer && want.Elem() == got:
		out := reflect.New(got)
		out.Elem().Set(value)
		return out, nil
	case got.Kind() == reflect.Pointer && got.Elem() == want && !value.IsNil():
		return value.Elem(), nil
	default:
		return reflect.Value{}, gerrors.NewErrTypeMismatch(want.String(), got.String())
	}
}
