package vterm

import (
	"github.com/dshills/vterm/internal/attr"
	"github.com/dshills/vterm/internal/config"
	"github.com/dshills/vterm/internal/termcap"
)

// ApplyConfig switches to cfg: capabilities are re-resolved with the new
// overrides, and tab stop, deferral bound and encoding take effect. The
// terminal is redrawn in full on the next pass.
func (c *Context) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var caps *termcap.Caps
	if cfg.Terminal.Name == c.cfg.Terminal.Name {
		caps = termcap.FromTerminfo(c.caps.Terminfo(), overrides(cfg))
	} else {
		var err error
		if caps, err = termcap.Load(cfg.Terminal.Name, overrides(cfg)); err != nil {
			return err
		}
	}
	enc, err := encoder(cfg, caps)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.caps = caps
	c.attrs = attr.New(caps)
	c.enc = enc
	c.out.SetCaps(caps)
	c.arena.SetTabStop(cfg.Terminal.TabStop)
	c.sched.SetMaxSkip(cfg.Scheduler.MaxSkip)
	if c.render != nil {
		c.render.SetCaps(caps, c.attrs)
		c.render.SetEncoder(enc)
	}
	c.log.Info("configuration applied", "config", cfg.String())
	c.RequestFullRedraw()
	return nil
}
