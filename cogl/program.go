package cogl

import "fmt"

// Program is a user supplied fragment program. It is compiled the first time
// a material using it is flushed; a compile failure is remembered and the
// program is never compiled again.
type Program struct {
	Language ProgramLanguage
	Source   string

	compiled bool
	handle   uint32
	err      error
}

// NewProgram returns an uncompiled program.
func NewProgram(lang ProgramLanguage, source string) *Program {
	return &Program{Language: lang, Source: source}
}

// Err returns the compile error, if compilation was attempted and failed.
func (p *Program) Err() error { return p.err }

func (p *Program) compile(d Driver) (uint32, error) {
	if p.compiled {
		return p.handle, p.err
	}
	p.compiled = true
	h, err := d.CompileProgram(p.Language, p.Source)
	if err != nil {
		p.err = fmt.Errorf("%w: %w", ErrProgramCompile, err)
		Logger().Warn("cogl: user program failed to compile", "err", err)
		return 0, p.err
	}
	p.handle = h
	return h, nil
}

// Release deletes the compiled program from the driver.
func (p *Program) Release(d Driver) {
	if p.compiled && p.err == nil {
		d.DeleteProgram(p.handle)
	}
	p.compiled, p.handle, p.err = false, 0, nil
}
