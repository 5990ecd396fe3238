package parser

// Identifier is a variable name. Names are case-sensitive and compared
// exactly.
type Identifier string

// Program is the root of the AST: the ordered top-level statement sequence.
type Program struct {
	Statements []Statement
}

type Statement interface {
	statement()
}

// DeclStatement is `let name` or `let name = expr`. Value is nil when the
// declaration has no initializer.
type DeclStatement struct {
	Name  Identifier
	Value *Expr
}

func (DeclStatement) statement() {}

// AssignStatement is `name = expr`.
type AssignStatement struct {
	Name  Identifier
	Value Expr
}

func (AssignStatement) statement() {}

// AddAssignStatement is `name += expr`.
type AddAssignStatement struct {
	Name  Identifier
	Value Expr
}

func (AddAssignStatement) statement() {}

// SubAssignStatement is `name -= expr`.
type SubAssignStatement struct {
	Name  Identifier
	Value Expr
}

func (SubAssignStatement) statement() {}

type WhileStatement struct {
	Condition Expr
	Body      []Statement
}

func (WhileStatement) statement() {}

// IfStatement has no else branch; the language does not have one.
type IfStatement struct {
	Condition Expr
	Body      []Statement
}

func (IfStatement) statement() {}

type Operator string

const (
	OpAdd     Operator = "+"
	OpSub     Operator = "-"
	OpGreater Operator = ">"
)

// Expr is a flat operator chain: a leading term followed by zero or more
// (operator, term) pairs. All three operators bind equally and associate
// left-to-right, so evaluation is a left fold over Rest. There are no
// precedence tiers.
type Expr struct {
	First Term
	Rest  []OpTerm
}

type OpTerm struct {
	Op   Operator
	Term Term
}

type Term interface {
	term()
}

// NumberTerm is an integer literal, already converted to the runtime value
// width at parse time.
type NumberTerm struct {
	Value int64
}

func (NumberTerm) term() {}

// VarTerm is a variable reference. Resolution happens at evaluation time.
type VarTerm struct {
	Name Identifier
}

func (VarTerm) term() {}

// CharTerm is a single-letter character literal. It evaluates to the
// letter's ASCII ordinal; there is no separate character runtime type.
type CharTerm struct {
	Letter byte
}

func (CharTerm) term() {}

// ParenTerm is a parenthesized sub-expression, which groups a chain into a
// single term.
type ParenTerm struct {
	Expr Expr
}

func (ParenTerm) term() {}
