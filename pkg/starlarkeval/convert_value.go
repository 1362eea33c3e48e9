/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// This file converts evaluated Starlark values into buildtools expressions
// so they can be printed in canonical form.
// Input: values from go.starlark.net/starlark
// Output: AST from github.com/bazelbuild/buildtools/build

package starlarkeval

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
	"go.starlark.net/starlark"
)

// ConvValue converts a value into an expression. Values without a literal
// form (functions, namespaces, structs) become identifiers holding their
// String() form.
func ConvValue(value starlark.Value) build.Expr {
	switch t := value.(type) {
	case starlark.NoneType:
		return &build.Ident{Name: "None"}
	case starlark.Bool:
		if t {
			return &build.Ident{Name: "True"}
		}
		return &build.Ident{Name: "False"}
	case starlark.Int:
		if val, ok := t.Int64(); ok {
			return &build.LiteralExpr{
				Token: strconv.FormatInt(val, 10),
			}
		}
		return &build.LiteralExpr{Token: t.String()}
	case starlark.Float:
		return &build.LiteralExpr{Token: t.String()}
	case starlark.String:
		return &build.StringExpr{
			Value: t.GoString(),
		}
	case *starlark.List:
		list := &build.ListExpr{}
		for i := 0; i < t.Len(); i++ {
			list.List = append(list.List, ConvValue(t.Index(i)))
		}
		return list
	case starlark.Tuple:
		tuple := &build.TupleExpr{}
		for _, elem := range t {
			tuple.List = append(tuple.List, ConvValue(elem))
		}
		return tuple
	case *starlark.Dict:
		dict := &build.DictExpr{}
		for _, item := range t.Items() {
			dict.List = append(dict.List, &build.KeyValueExpr{
				Key:   ConvValue(item[0]),
				Value: ConvValue(item[1]),
			})
		}
		return dict
	}
	return &build.Ident{Name: value.String()}
}

// Format returns the canonical text of a value.
func Format(value starlark.Value) string {
	return build.FormatString(ConvValue(value))
}
