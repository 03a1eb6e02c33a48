package typed

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/typesystem"
)

// CodePrinter renders typed trees as source-like text. Lowered constructs
// are printed in their lowered form: match branches show the requirements
// they test and the bindings they declare.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
	// Optional; when set, `let` bindings are printed with their types.
	engine *typesystem.Engine
}

func NewCodePrinter(engine *typesystem.Engine) *CodePrinter {
	return &CodePrinter{engine: engine}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// Sprint renders a single expression.
func Sprint(e *Expression, engine *typesystem.Engine) string {
	p := NewCodePrinter(engine)
	p.PrintExpression(e)
	return p.String()
}

// SprintFunction renders a function declaration with its body.
func SprintFunction(fn *FunctionDeclaration, engine *typesystem.Engine) string {
	p := NewCodePrinter(engine)
	p.PrintFunction(fn)
	return p.String()
}

func (p *CodePrinter) PrintFunction(fn *FunctionDeclaration) {
	p.write("fn ")
	p.write(fn.Name.Value)
	p.write("(")
	for i, param := range fn.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name)
		if p.engine != nil {
			p.write(": ")
			p.write(p.engine.FriendlyName(param.TypeID))
		}
	}
	p.write(")")
	if p.engine != nil {
		if _, unit := p.engine.LookUp(fn.ReturnType).(typesystem.Unit); !unit {
			p.write(" -> ")
			p.write(p.engine.FriendlyName(fn.ReturnType))
		}
	}
	if fn.Body == nil {
		p.write(";")
		return
	}
	p.write(" ")
	p.PrintExpression(fn.Body)
}

func (p *CodePrinter) PrintExpression(e *Expression) {
	if e == nil {
		p.write("<???>")
		return
	}
	switch v := e.Variant.(type) {
	case Literal:
		p.write(FormatLiteral(v.Value))
	case VariableExpression:
		p.write(v.Name)
	case Tuple:
		p.write("(")
		p.printList(v.Fields)
		if len(v.Fields) == 1 {
			p.write(",")
		}
		p.write(")")
	case Array:
		p.write("[")
		p.printList(v.Contents)
		p.write("]")
	case StructExpression:
		p.write(v.StructName)
		p.write(" { ")
		for i, f := range v.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name)
			p.write(": ")
			p.PrintExpression(f.Value)
		}
		p.write(" }")
	case StructFieldAccess:
		p.PrintExpression(v.Prefix)
		p.write(".")
		p.write(v.FieldToAccess.Name)
	case TupleIndexAccess:
		p.PrintExpression(v.Prefix)
		p.write(".")
		p.write(strconv.Itoa(v.ElemToAccessNum))
	case FunctionApplication:
		p.printCall(v)
	case CodeBlock:
		p.printBlock(v.Contents)
	case IfExpression:
		p.write("if ")
		p.PrintExpression(v.Condition)
		p.write(" ")
		p.PrintExpression(v.Then)
		if v.Else != nil {
			p.write(" else ")
			p.PrintExpression(v.Else)
		}
	case MatchExpression:
		p.printMatch(v)
	case AbiCast:
		p.write("abi(")
		p.write(v.AbiName.String())
		p.write(", ")
		p.PrintExpression(v.Address)
		p.write(")")
	case Asm:
		p.printAsm(v)
	case Intrinsic:
		p.write(v.Name)
		if len(v.TypeArguments) > 0 && p.engine != nil {
			names := make([]string, len(v.TypeArguments))
			for i, id := range v.TypeArguments {
				names[i] = p.engine.FriendlyName(id)
			}
			p.write("<" + strings.Join(names, ", ") + ">")
		}
		p.write("(")
		p.printList(v.Arguments)
		p.write(")")
	case EnumInstantiation:
		p.write(v.EnumName + "::" + v.VariantName)
		if v.Contents != nil {
			p.write("(")
			p.PrintExpression(v.Contents)
			p.write(")")
		}
	case EnumTag:
		p.write("__tag(")
		p.PrintExpression(v.Prefix)
		p.write(")")
	case UnsafeDowncast:
		p.write("__downcast<" + v.Variant.Name + ">(")
		p.PrintExpression(v.Prefix)
		p.write(")")
	case ErrorRecovery:
		p.write("<error>")
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printList(exprs []*Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.PrintExpression(e)
	}
}

func (p *CodePrinter) printCall(v FunctionApplication) {
	if v.Selector != nil {
		p.PrintExpression(v.Selector.ContractAddress)
		p.write(".")
	}
	p.write(v.Name.String())
	if len(v.ContractCallParams) > 0 {
		p.write(" { ")
		for i, name := range sortedKeys(v.ContractCallParams) {
			if i > 0 {
				p.write(", ")
			}
			p.write(name + ": ")
			p.PrintExpression(v.ContractCallParams[name])
		}
		p.write(" }")
	}
	p.write("(")
	for i, arg := range v.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.PrintExpression(arg.Value)
	}
	p.write(")")
}

func (p *CodePrinter) printBlock(contents []AstNode) {
	p.write("{\n")
	p.indent++
	for _, node := range contents {
		p.writeIndent()
		switch n := node.Content.(type) {
		case *VariableDeclaration:
			p.write("let ")
			if n.IsMutable {
				p.write("mut ")
			}
			p.write(n.Name.Value)
			if p.engine != nil && n.Body != nil {
				p.write(": ")
				p.write(p.engine.FriendlyName(n.Body.ReturnType))
			}
			p.write(" = ")
			p.PrintExpression(n.Body)
			p.write(";")
		case *ExpressionStatement:
			p.PrintExpression(n.Expression)
			p.write(";")
		case *ImplicitReturn:
			p.PrintExpression(n.Expression)
		case *ReturnStatement:
			p.write("return ")
			p.PrintExpression(n.Expression)
			p.write(";")
		default:
			p.write("<???>")
		}
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printMatch(v MatchExpression) {
	p.write("match ")
	p.PrintExpression(v.Value)
	p.write(" {\n")
	p.indent++
	for _, b := range v.Branches {
		p.writeIndent()
		if b.Condition.IsCatchAll || len(b.Requirements) == 0 {
			p.write("_")
		} else {
			for i, req := range b.Requirements {
				if i > 0 {
					p.write(" && ")
				}
				p.PrintExpression(req.Left)
				p.write(" == ")
				p.PrintExpression(req.Right)
			}
		}
		p.write(" => ")
		p.PrintExpression(b.Result)
		p.write(",\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printAsm(v Asm) {
	p.write("asm(")
	for i, r := range v.Registers {
		if i > 0 {
			p.write(", ")
		}
		p.write(r.Name)
		if r.Initializer != nil {
			p.write(": ")
			p.PrintExpression(r.Initializer)
		}
	}
	p.write(") {\n")
	p.indent++
	for _, op := range v.Body {
		p.writeIndent()
		p.write(op.OpName.Value)
		for _, arg := range op.OpArgs {
			p.write(" " + arg.Value)
		}
		if op.Immediate != nil {
			p.write(" " + op.Immediate.Value)
		}
		p.write(";\n")
	}
	if v.Returns != nil {
		p.writeIndent()
		p.write(v.Returns.Value + "\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// FormatLiteral renders a literal the way it is written in source.
func FormatLiteral(lit ast.Literal) string {
	switch lit.Kind {
	case ast.LitU8:
		return strconv.FormatUint(lit.Uint, 10) + "u8"
	case ast.LitU16:
		return strconv.FormatUint(lit.Uint, 10) + "u16"
	case ast.LitU32:
		return strconv.FormatUint(lit.Uint, 10) + "u32"
	case ast.LitU64:
		return strconv.FormatUint(lit.Uint, 10) + "u64"
	case ast.LitNumeric:
		return strconv.FormatUint(lit.Uint, 10)
	case ast.LitString:
		return strconv.Quote(lit.String)
	case ast.LitBoolean:
		return strconv.FormatBool(lit.Bool)
	case ast.LitByte:
		return "0b" + strconv.FormatUint(uint64(lit.Byte), 2)
	case ast.LitB256:
		return "0x" + hex.EncodeToString(lit.B256[:])
	default:
		return "<???>"
	}
}
