package types

import "github.com/sigil-lang/sigilc/internal/ast"

// Registry looks up a user-defined type declaration by name. FromSyntax
// takes one but does not consult it: a ConstructorType becomes a
// Constructor by name alone, and the caller checks that the name exists.
type Registry interface {
	LookupType(name string) (params []string, ok bool)
}

// FromSyntax turns a parsed internal/ast.TypeExpr into the checker's
// Type representation. typeParams names the enclosing declaration's
// own generic parameters, so a bare uppercase name matching one of
// them resolves to a TypeVar instead of an undefined Constructor.
func FromSyntax(te ast.TypeExpr, typeParams []string, reg Registry) Type {
	switch te := te.(type) {
	case *ast.PrimitiveType:
		return Primitive{te.Name}
	case *ast.ListType:
		return List{Elem: FromSyntax(te.Elem, typeParams, reg)}
	case *ast.MapType:
		return MapType{Key: FromSyntax(te.Key, typeParams, reg), Value: FromSyntax(te.Value, typeParams, reg)}
	case *ast.TupleType:
		elems := make([]Type, len(te.Elems))
		for i, e := range te.Elems {
			elems[i] = FromSyntax(e, typeParams, reg)
		}
		return Tuple{Elems: elems}
	case *ast.FunctionType:
		params := make([]Type, len(te.Params))
		for i, pr := range te.Params {
			params[i] = FromSyntax(pr, typeParams, reg)
		}
		return Function{Params: params, Return: FromSyntax(te.Return, typeParams, reg), Effects: te.Effects}
	case *ast.RecordType:
		fields := make(map[string]Type, len(te.Fields))
		for name, t := range te.Fields {
			fields[name] = FromSyntax(t, typeParams, reg)
		}
		return Record{Fields: fields}
	case *ast.TypeVarType:
		return TypeVar{ID: te.Name}
	case *ast.ConstructorType:
		for _, tp := range typeParams {
			if tp == te.Name.Name {
				return TypeVar{ID: tp}
			}
		}
		args := make([]Type, len(te.Args))
		for i, a := range te.Args {
			args[i] = FromSyntax(a, typeParams, reg)
		}
		return Constructor{Name: te.Name.Name, Args: args}
	case *ast.QualifiedType:
		args := make([]Type, len(te.Args))
		for i, a := range te.Args {
			args[i] = FromSyntax(a, typeParams, reg)
		}
		qualified := ""
		for _, seg := range te.ModulePath.Segments {
			qualified += seg + "."
		}
		return Constructor{Name: qualified + te.Name, Args: args}
	default:
		return Any{}
	}
}
