package interp

// dollar arms the two-step '$'/'$$' lookahead, per spec.md §4.1 and §9
// design note 6: a bare '$' discards the pending expression-stack
// arguments, but a second '$' immediately following means macro return.
func (it *Interpreter) dollar() (*st, error) {
	return dollarState, nil
}

// dollarState decides which of the two meanings the lookahead resolved
// to. A non-'$' byte is re-dispatched through dispatchStart exactly as
// if '$' had never been seen, since the only thing '$' alone does is
// clear pending arguments.
var dollarState = &st{Name: "dollar"}

func init() {
	dollarState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		if ch == '$' {
			args := 0
			if it.Expr.Args() > 0 {
				n, err := it.Expr.PopNumCalc(0, 1)
				if err != nil {
					return nil, err
				}
				args = int(n)
			}
			panic(&ReturnSignal{Args: args})
		}
		it.Expr.DiscardArgs()
		return dispatchStart(it, ch)
	}
	dollarState.EndOfMacro = func(it *Interpreter) error {
		return NewError(KindSyntax, "dangling '$' at end of macro")
	}
}
