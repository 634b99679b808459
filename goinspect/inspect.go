// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

// Package goinspect implements gtjs.TypeInspector on top of go/types,
// so that schema documents can be generated straight from Go source.
package goinspect

import (
	"fmt"
	"go/types"

	"github.com/antoniszymanski/gtjs-go/gtjs"
	"golang.org/x/tools/go/packages"
)

type Inspector struct {
	pkg               *packages.Package
	includeUnexported bool

	memo      map[string]*gtjs.ResolvedType
	resolving map[string]bool
	named     map[string]*types.Named // raw identity -> origin type
}

type Option func(*Inspector)

func IncludeUnexported() Option {
	return func(in *Inspector) {
		in.includeUnexported = true
	}
}

func NewInspector(pkg *packages.Package, opts ...Option) *Inspector {
	in := &Inspector{
		pkg:       pkg,
		memo:      make(map[string]*gtjs.ResolvedType),
		resolving: make(map[string]bool),
		named:     make(map[string]*types.Named),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Resolve looks up a package-level type by name.
func (in *Inspector) Resolve(name string) (*gtjs.ResolvedType, error) {
	obj := in.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("goinspect: type %s not found in %s", name, in.pkg.PkgPath)
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("goinspect: %s is not a type in %s", name, in.pkg.PkgPath)
	}
	return in.resolveType(tn.Type()), nil
}

// Members implements gtjs.TypeInspector. Field order follows source
// declaration order, which keeps generated documents deterministic.
func (in *Inspector) Members(rt *gtjs.ResolvedType) ([]gtjs.Member, error) {
	if rt.Kind() != gtjs.Object {
		return nil, fmt.Errorf("goinspect: %s is not an object type", rt)
	}
	origin, ok := in.named[rawKeyOf(rt)]
	if !ok {
		return nil, fmt.Errorf("goinspect: unknown type %s", rt)
	}
	st, ok := origin.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("goinspect: %s has no inspectable members", rt)
	}
	_, superIdx := in.supertypeOf(st)
	return in.structMembers(rt, st, superIdx)
}

func (in *Inspector) structMembers(rt *gtjs.ResolvedType, st *types.Struct, superIdx int) ([]gtjs.Member, error) {
	var members []gtjs.Member
	for i := range st.NumFields() {
		f := st.Field(i)
		if i == superIdx {
			continue // surfaced through the supertype link instead
		}
		if !f.Exported() && !in.includeUnexported {
			continue
		}
		if f.Embedded() {
			// Additional embedded structs beyond the supertype are
			// flattened, matching encoding/json field promotion.
			est, ok := underlyingStruct(f.Type())
			if !ok {
				continue
			}
			flat, err := in.structMembers(rt, est, -1)
			if err != nil {
				return nil, err
			}
			members = append(members, flat...)
			continue
		}
		members = append(members, gtjs.Member{
			Declaring: rt,
			Name:      f.Name(),
			Type:      in.resolveType(f.Type()),
			Tag:       st.Tag(i),
			Nilable:   nilable(f.Type()),
		})
	}
	return members, nil
}

func (in *Inspector) resolveType(t types.Type) *gtjs.ResolvedType {
	// https://github.com/golang/example/tree/master/gotypes#types
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return basicType(t)
	case *types.Pointer:
		return in.resolveType(t.Elem())
	case *types.Slice:
		return gtjs.ArrayOf(in.resolveType(t.Elem()))
	case *types.Array:
		return gtjs.ArrayOf(in.resolveType(t.Elem()))
	case *types.Map:
		return gtjs.MapOf(in.resolveType(t.Elem()))
	case *types.TypeParam:
		return gtjs.TypeParamRef(t.Obj().Name())
	case *types.Named:
		return in.resolveNamed(t)
	case *types.Interface:
		return in.resolveInterface(t)
	case *types.Union:
		return in.resolveUnion(t)
	default:
		return gtjs.AnyType
	}
}

func (in *Inspector) resolveNamed(n *types.Named) *gtjs.ResolvedType {
	key := n.String()
	if rt, ok := in.memo[key]; ok {
		return rt
	}
	if in.resolving[key] {
		// self-referential type arguments; a shallow identity is
		// enough for deduplication
		return gtjs.NewObject(pkgPathOf(n.Obj()), n.Obj().Name())
	}
	in.resolving[key] = true
	defer delete(in.resolving, key)

	obj := n.Obj()
	var rt *gtjs.ResolvedType
	switch u := n.Underlying().(type) {
	case *types.Basic:
		rt = gtjs.NamedScalar(pkgPathOf(obj), obj.Name(), basicType(u).Kind())
	case *types.Struct:
		origin := n.Origin()
		rt = gtjs.NewObject(pkgPathOf(obj), obj.Name())
		if tparams := origin.TypeParams(); tparams.Len() > 0 {
			names := make([]string, tparams.Len())
			for i := range tparams.Len() {
				names[i] = tparams.At(i).Obj().Name()
			}
			rt = rt.WithTypeParams(names...)
		}
		if targs := n.TypeArgs(); targs.Len() > 0 {
			args := make([]*gtjs.ResolvedType, targs.Len())
			for i := range targs.Len() {
				args[i] = in.resolveType(targs.At(i))
			}
			rt = rt.WithArgs(args...)
		}
		ost := origin.Underlying().(*types.Struct)
		if super, _ := in.supertypeOf(ost); super != nil {
			rt = rt.WithSupertype(super)
		}
		in.named[pkgPathOf(obj)+"."+obj.Name()] = origin
	default:
		// named aliases of composites and interfaces lose their name
		// and resolve structurally
		rt = in.resolveType(n.Underlying())
	}
	in.memo[key] = rt
	return rt
}

// supertypeOf treats the first embedded object-typed field as the
// struct's supertype, the way extends-style inheritance maps onto Go
// embedding.
func (in *Inspector) supertypeOf(st *types.Struct) (*gtjs.ResolvedType, int) {
	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Embedded() || (!f.Exported() && !in.includeUnexported) {
			continue
		}
		rt := in.resolveType(f.Type())
		if rt.Kind() == gtjs.Object {
			return rt, i
		}
	}
	return nil, -1
}

func (in *Inspector) resolveInterface(t *types.Interface) *gtjs.ResolvedType {
	var u *types.Union
	var ok bool
	for i := t.NumEmbeddeds() - 1; i >= 0; i-- {
		u, ok = t.EmbeddedType(i).(*types.Union)
		if ok {
			break
		}
	}
	if u == nil {
		return gtjs.AnyType
	}
	return in.resolveUnion(u)
}

func (in *Inspector) resolveUnion(t *types.Union) *gtjs.ResolvedType {
	alts := make([]*gtjs.ResolvedType, 0, t.Len())
	for term := range t.Terms() {
		alts = append(alts, in.resolveType(term.Type()))
	}
	if len(alts) == 0 {
		return gtjs.AnyType
	}
	return gtjs.UnionOf(alts...)
}

func basicType(t *types.Basic) *gtjs.ResolvedType {
	switch t.Kind() {
	case types.Bool, types.UntypedBool:
		return gtjs.BooleanType
	case types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64,
		types.Uintptr, types.UntypedInt:
		return gtjs.IntegerType
	case types.Float32, types.Float64, types.UntypedFloat:
		return gtjs.NumberType
	case types.String, types.UntypedString:
		return gtjs.StringType
	default:
		return gtjs.AnyType
	}
}

func underlyingStruct(t types.Type) (*types.Struct, bool) {
	switch t := types.Unalias(t).(type) {
	case *types.Pointer:
		return underlyingStruct(t.Elem())
	case *types.Named:
		st, ok := t.Underlying().(*types.Struct)
		return st, ok
	case *types.Struct:
		return t, true
	default:
		return nil, false
	}
}

func nilable(t types.Type) bool {
	switch t := types.Unalias(t).(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Interface, *types.Chan, *types.Signature:
		return true
	case *types.Named:
		return nilable(t.Underlying())
	default:
		return false
	}
}

func pkgPathOf(obj types.Object) string {
	if pkg := obj.Pkg(); pkg != nil {
		return pkg.Path()
	}
	return ""
}

func rawKeyOf(rt *gtjs.ResolvedType) string {
	return rt.Package() + "." + rt.Name()
}
