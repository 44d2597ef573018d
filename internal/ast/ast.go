package ast

import "fmt"

// Pos is a source position. The zero value means unknown.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is implemented by every variant in this package and nothing else.
type Node interface {
	ID() NodeID
	Pos() Pos
	Kind() Kind
	aNode()
}

// Base carries the identity every node gets from its arena.
type Base struct {
	id  NodeID
	pos Pos
}

func (b *Base) ID() NodeID { return b.id }
func (b *Base) Pos() Pos   { return b.pos }

type Kind int

const (
	KindProgram Kind = iota
	KindBlock
	KindIntConst
	KindStrConst
	KindIdentifier
	KindIdentifierList
	KindType
	KindDeclaration
	KindParameterList
	KindFxnNameArg
	KindFxnDef
	KindFDeclaration
	KindFxnCall
	KindArithmetic
	KindBitwise
	KindComparison
	KindBoolean
	KindAssign
	KindReturn
	KindIfThen
	KindIfThenElse
	KindWhile
)

var kindNames = [...]string{
	KindProgram:        "Program",
	KindBlock:          "Block",
	KindIntConst:       "IntConst",
	KindStrConst:       "StrConst",
	KindIdentifier:     "Identifier",
	KindIdentifierList: "IdentifierList",
	KindType:           "Type",
	KindDeclaration:    "Declaration",
	KindParameterList:  "ParameterList",
	KindFxnNameArg:     "FxnNameArg",
	KindFxnDef:         "FxnDef",
	KindFDeclaration:   "FDeclaration",
	KindFxnCall:        "FxnCall",
	KindArithmetic:     "Arithmetic",
	KindBitwise:        "Bitwise",
	KindComparison:     "Comparison",
	KindBoolean:        "Boolean",
	KindAssign:         "Assign",
	KindReturn:         "Return",
	KindIfThen:         "IfThen",
	KindIfThenElse:     "IfThenElse",
	KindWhile:          "While",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Program is the root: top-level definitions and declarations in source order.
type Program struct {
	Base
	Nodes []Node
}

func (*Program) Kind() Kind { return KindProgram }
func (*Program) aNode()     {}

func (p *Program) Add(n Node) { p.Nodes = append(p.Nodes, n) }

// Block is a brace-delimited statement sequence.
type Block struct {
	Base
	Stmts []Node
}

func (*Block) Kind() Kind { return KindBlock }
func (*Block) aNode()     {}

func (b *Block) Add(n Node) { b.Stmts = append(b.Stmts, n) }

type IntConst struct {
	Base
	Value int32
}

func (*IntConst) Kind() Kind { return KindIntConst }
func (*IntConst) aNode()     {}

type StrConst struct {
	Base
	Value string
}

func (*StrConst) Kind() Kind { return KindStrConst }
func (*StrConst) aNode()     {}

// Identifier only holds a name; names are resolved through IdentifierList.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Identifier) aNode()     {}

// IdentifierList names one variable (or several, for `int a, b;`),
// with the number of '*' written in front of it.
type IdentifierList struct {
	Base
	Names    []string
	Pointers int
}

func (*IdentifierList) Kind() Kind { return KindIdentifierList }
func (*IdentifierList) aNode()     {}

func (l *IdentifierList) Add(name string) { l.Names = append(l.Names, name) }

// Name returns the single name held by l. ok is false when l holds
// zero or several names.
func (l *IdentifierList) Name() (name string, ok bool) {
	if len(l.Names) != 1 {
		return "", false
	}
	return l.Names[0], true
}

type TypeTag int

const (
	TypeVoid TypeTag = iota
	TypeInt
	TypeChar
)

func (t TypeTag) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "int"
	case TypeChar:
		return "char"
	}
	return fmt.Sprintf("TypeTag(%d)", int(t))
}

// Type is a primitive type. Const is recorded but never enforced.
type Type struct {
	Base
	Tag   TypeTag
	Const bool
}

func (*Type) Kind() Kind { return KindType }
func (*Type) aNode()     {}

type Declaration struct {
	Base
	Type  *Type
	Names *IdentifierList
}

func (*Declaration) Kind() Kind { return KindDeclaration }
func (*Declaration) aNode()     {}

// ParameterList holds Declarations for a function's formals, or arbitrary
// expressions when it is the argument list of a FxnCall.
type ParameterList struct {
	Base
	Params []Node
}

func (*ParameterList) Kind() Kind { return KindParameterList }
func (*ParameterList) aNode()     {}

func (l *ParameterList) Add(n Node) { l.Params = append(l.Params, n) }

type FxnNameArg struct {
	Base
	Name   string
	Params *ParameterList
}

func (*FxnNameArg) Kind() Kind { return KindFxnNameArg }
func (*FxnNameArg) aNode()     {}

type FxnDef struct {
	Base
	Ret     *Type
	NameArg *FxnNameArg
	Body    *Block
}

func (*FxnDef) Kind() Kind { return KindFxnDef }
func (*FxnDef) aNode()     {}

// FDeclaration is a declaration without a body. Name is a FxnNameArg for a
// function prototype or an IdentifierList for a variable.
type FDeclaration struct {
	Base
	Ret  Node
	Name Node
}

func (*FDeclaration) Kind() Kind { return KindFDeclaration }
func (*FDeclaration) aNode()     {}

type FxnCall struct {
	Base
	Callee string
	Args   *ParameterList
}

func (*FxnCall) Kind() Kind { return KindFxnCall }
func (*FxnCall) aNode()     {}

type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	}
	return fmt.Sprintf("ArithOp(%d)", int(op))
}

type BitOp int

const (
	BitAnd BitOp = iota
	BitOr
	BitXor
	Shl
	Shr
)

func (op BitOp) String() string {
	switch op {
	case BitAnd:
		return "&"
	case BitOr:
		return "|"
	case BitXor:
		return "^"
	case Shl:
		return "<<"
	case Shr:
		return ">>"
	}
	return fmt.Sprintf("BitOp(%d)", int(op))
}

type CmpOp int

const (
	Lt CmpOp = iota
	Gt
	Ge
	Le
	Eq
	Ne
)

func (op CmpOp) String() string {
	switch op {
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Le:
		return "<="
	case Eq:
		return "=="
	case Ne:
		return "!="
	}
	return fmt.Sprintf("CmpOp(%d)", int(op))
}

type BoolOp int

const (
	AndAnd BoolOp = iota
	OrOr
)

func (op BoolOp) String() string {
	switch op {
	case AndAnd:
		return "&&"
	case OrOr:
		return "||"
	}
	return fmt.Sprintf("BoolOp(%d)", int(op))
}

type Arithmetic struct {
	Base
	Op          ArithOp
	Left, Right Node
}

func (*Arithmetic) Kind() Kind { return KindArithmetic }
func (*Arithmetic) aNode()     {}

type Bitwise struct {
	Base
	Op          BitOp
	Left, Right Node
}

func (*Bitwise) Kind() Kind { return KindBitwise }
func (*Bitwise) aNode()     {}

type Comparison struct {
	Base
	Op          CmpOp
	Left, Right Node
}

func (*Comparison) Kind() Kind { return KindComparison }
func (*Comparison) aNode()     {}

type Boolean struct {
	Base
	Op          BoolOp
	Left, Right Node
}

func (*Boolean) Kind() Kind { return KindBoolean }
func (*Boolean) aNode()     {}

type Assign struct {
	Base
	LHS, RHS Node
}

func (*Assign) Kind() Kind { return KindAssign }
func (*Assign) aNode()     {}

// Return with a nil Value is `return;`.
type Return struct {
	Base
	Value Node
}

func (*Return) Kind() Kind { return KindReturn }
func (*Return) aNode()     {}

type IfThen struct {
	Base
	Cond, Body Node
}

func (*IfThen) Kind() Kind { return KindIfThen }
func (*IfThen) aNode()     {}

type IfThenElse struct {
	Base
	Cond, Then, Else Node
}

func (*IfThenElse) Kind() Kind { return KindIfThenElse }
func (*IfThenElse) aNode()     {}

type While struct {
	Base
	Cond, Body Node
}

func (*While) Kind() Kind { return KindWhile }
func (*While) aNode()     {}

// File is one compilation unit: its root and the arena owning every node in it.
type File struct {
	Name  string
	Arena *Arena
	Root  *Program
}
