package cogl

import "github.com/go-gl/mathgl/mgl32"

// MatrixStack is a stack of texture coordinate transforms. Only the top
// matrix is sent to the driver, and only when it differs from the last one
// sent.
type MatrixStack struct {
	stack []mgl32.Mat4

	flushed      mgl32.Mat4
	flushedValid bool
}

func newMatrixStack() *MatrixStack {
	return &MatrixStack{stack: []mgl32.Mat4{mgl32.Ident4()}}
}

// Get returns the top matrix.
func (s *MatrixStack) Get() mgl32.Mat4 { return s.stack[len(s.stack)-1] }

// Set replaces the top matrix.
func (s *MatrixStack) Set(m mgl32.Mat4) { s.stack[len(s.stack)-1] = m }

// LoadIdentity resets the top matrix.
func (s *MatrixStack) LoadIdentity() { s.Set(mgl32.Ident4()) }

// Multiply post-multiplies the top matrix by m.
func (s *MatrixStack) Multiply(m mgl32.Mat4) { s.Set(s.Get().Mul4(m)) }

// Push duplicates the top matrix.
func (s *MatrixStack) Push() { s.stack = append(s.stack, s.Get()) }

// Pop discards the top matrix. The bottom matrix is never popped.
func (s *MatrixStack) Pop() {
	if len(s.stack) == 1 {
		panic("cogl: matrix stack underflow")
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns the number of matrices on the stack.
func (s *MatrixStack) Depth() int { return len(s.stack) }

// flush sends the top matrix to the driver's active unit.
func (s *MatrixStack) flush(d Driver) {
	top := s.Get()
	if s.flushedValid && s.flushed == top {
		return
	}
	d.TextureMatrix(top)
	s.flushed, s.flushedValid = top, true
}

// dirty forgets what was last sent.
func (s *MatrixStack) dirty() { s.flushedValid = false }
