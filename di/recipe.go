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
	"fmt"
	"reflect"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
)

var errorType = reflect.TypeFor[error]()

// Recipe is a registered construction function for a given type
type Recipe struct {
	rtype reflect.Type
	build func(*Injector) (reflect.Value, error)
}

// NewRecipe creates the Recipe of T from fn
func NewRecipe[T any](fn func(*Injector) (T, error)) Recipe {
	return Recipe{
		rtype: reflect.TypeFor[T](),
		build: func(inj *Injector) (reflect.Value, error) {
			product, err := fn(inj)
			if err != nil {
				return reflect.Value{}, err
			}
			// keep the static type of T, even for interfaces
			return reflect.ValueOf(&product).Elem(), nil
		},
	}
}

// Type returns the type produced by the recipe
func (r Recipe) Type() reflect.Type {
	return r.rtype
}

// CtorRecipe turns a constructor function into a Recipe for its first return type.
// The constructor may return a trailing error. Each parameter is resolved from the
// injector: pointers and interfaces are shared instances obtained through Get,
// any other parameter is a fresh instance obtained through Creat, and an
// *Injector parameter receives the injector running the recipe.
func CtorRecipe(ctor any) (Recipe, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return Recipe{}, gerrors.NewErrInvalidRecipe(fmt.Sprintf("%T is not a function", ctor))
	}

	ftype := fn.Type()
	if ftype.IsVariadic() {
		return Recipe{}, gerrors.NewErrInvalidRecipe(fmt.Sprintf("%s is variadic", ftype))
	}

	switch ftype.NumOut() {
	case 1:
	case 2:
		if ftype.Out(1) != errorType {
			return Recipe{}, gerrors.NewErrInvalidRecipe(fmt.Sprintf("%s second return must be an error", ftype))
		}
	default:
		return Recipe{}, gerrors.NewErrInvalidRecipe(fmt.Sprintf("%s must return a value and an optional error", ftype))
	}

	return Recipe{
		rtype: ftype.Out(0),
		build: func(inj *Injector) (reflect.Value, error) {
			args := make([]reflect.Value, ftype.NumIn())
			for i := range args {
				in := ftype.In(i)
				var (
					arg reflect.Value
					err error
				)
				switch in.Kind() {
				case reflect.Pointer, reflect.Interface:
					arg, err = inj.get(in)
				default:
					arg, err = inj.creat(in)
				}
				if err != nil {
					return reflect.Value{}, err
				}
				args[i] = arg
			}

			outs := fn.Call(args)
			if len(outs) == 2 && !outs[1].IsNil() {
				return reflect.Value{}, outs[1].Interface().(error)
			}
			return outs[0], nil
		},
	}, nil
}
