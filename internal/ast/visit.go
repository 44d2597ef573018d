package ast

import "fmt"

// Visitor has one method per node variant. Consumers implement all of them,
// so a new variant does not build until every consumer handles it.
type Visitor[T any] interface {
	VisitProgram(*Program) (T, error)
	VisitBlock(*Block) (T, error)
	VisitIntConst(*IntConst) (T, error)
	VisitStrConst(*StrConst) (T, error)
	VisitIdentifier(*Identifier) (T, error)
	VisitIdentifierList(*IdentifierList) (T, error)
	VisitType(*Type) (T, error)
	VisitDeclaration(*Declaration) (T, error)
	VisitParameterList(*ParameterList) (T, error)
	VisitFxnNameArg(*FxnNameArg) (T, error)
	VisitFxnDef(*FxnDef) (T, error)
	VisitFDeclaration(*FDeclaration) (T, error)
	VisitFxnCall(*FxnCall) (T, error)
	VisitArithmetic(*Arithmetic) (T, error)
	VisitBitwise(*Bitwise) (T, error)
	VisitComparison(*Comparison) (T, error)
	VisitBoolean(*Boolean) (T, error)
	VisitAssign(*Assign) (T, error)
	VisitReturn(*Return) (T, error)
	VisitIfThen(*IfThen) (T, error)
	VisitIfThenElse(*IfThenElse) (T, error)
	VisitWhile(*While) (T, error)
}

// Visit calls the method of v matching n's variant.
func Visit[T any](v Visitor[T], n Node) (T, error) {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *Block:
		return v.VisitBlock(n)
	case *IntConst:
		return v.VisitIntConst(n)
	case *StrConst:
		return v.VisitStrConst(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *IdentifierList:
		return v.VisitIdentifierList(n)
	case *Type:
		return v.VisitType(n)
	case *Declaration:
		return v.VisitDeclaration(n)
	case *ParameterList:
		return v.VisitParameterList(n)
	case *FxnNameArg:
		return v.VisitFxnNameArg(n)
	case *FxnDef:
		return v.VisitFxnDef(n)
	case *FDeclaration:
		return v.VisitFDeclaration(n)
	case *FxnCall:
		return v.VisitFxnCall(n)
	case *Arithmetic:
		return v.VisitArithmetic(n)
	case *Bitwise:
		return v.VisitBitwise(n)
	case *Comparison:
		return v.VisitComparison(n)
	case *Boolean:
		return v.VisitBoolean(n)
	case *Assign:
		return v.VisitAssign(n)
	case *Return:
		return v.VisitReturn(n)
	case *IfThen:
		return v.VisitIfThen(n)
	case *IfThenElse:
		return v.VisitIfThenElse(n)
	case *While:
		return v.VisitWhile(n)
	}
	var zero T
	if n == nil {
		return zero, fmt.Errorf("visit of nil node")
	}
	panic(fmt.Sprintf("ast: unhandled node variant %T", n))
}
