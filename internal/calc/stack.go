package calc

// Stack is a LIFO of values. Operations that can fail leave it unchanged.
type Stack struct {
	data []Value
}

func (s *Stack) Push(v Value) { s.data = append(s.data, v) }

func (s *Stack) Pop() (Value, error) {
	if len(s.data) == 0 {
		return Value{}, ErrStackEmpty
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, nil
}

func (s *Stack) Peek() (Value, error) {
	if len(s.data) == 0 {
		return Value{}, ErrStackEmpty
	}
	return s.data[len(s.data)-1], nil
}

// Set replaces the top value, or pushes onto an empty stack.
func (s *Stack) Set(v Value) {
	if len(s.data) == 0 {
		s.Push(v)
		return
	}
	s.data[len(s.data)-1] = v
}

// Top returns a copy of the top n values, deepest first, without popping.
func (s *Stack) Top(n int) ([]Value, error) {
	if len(s.data) < n {
		return nil, needValues(n)
	}
	out := make([]Value, n)
	copy(out, s.data[len(s.data)-n:])
	return out, nil
}

// Drop removes the top n values; callers check the depth with Top first.
func (s *Stack) Drop(n int) { s.data = s.data[:len(s.data)-n] }

func (s *Stack) Len() int { return len(s.data) }

func (s *Stack) Clear() { s.data = s.data[:0] }

// Values returns a copy, bottom first.
func (s *Stack) Values() []Value {
	out := make([]Value, len(s.data))
	copy(out, s.data)
	return out
}
