package mode

// totalTimeoutOnMs is the read and write total timeout applied by TO=ON.
const totalTimeoutOnMs = 60000

// serialOverlay collects the keys given in a keyword command. A nil field
// means the key was absent and the snapshot value is kept.
type serialOverlay struct {
	baud     *uint32
	parity   *Parity
	dataBits *uint8
	stopBits *StopBits
	timeout  *bool
	xon      *bool
	odsr     *bool
	octs     *bool
	idsr     *bool
	dtr      *DTRControl
	rts      *RTSControl
}

type keywordParser func(c Cursor, o *serialOverlay) (Cursor, bool)

var serialKeywords = []struct {
	key   string
	parse keywordParser
}{
	{"BAUD=", func(c Cursor, o *serialOverlay) (Cursor, bool) {
		v, next, ok := ScanBaud(c)
		o.baud = &v
		return next, ok
	}},
	{"PARITY=", func(c Cursor, o *serialOverlay) (Cursor, bool) {
		v, next, ok := ScanParity(c)
		o.parity = &v
		return next, ok
	}},
	{"DATA=", func(c Cursor, o *serialOverlay) (Cursor, bool) {
		v, next, ok := ScanDataBits(c)
		o.dataBits = &v
		return next, ok
	}},
	{"STOP=", func(c Cursor, o *serialOverlay) (Cursor, bool) {
		v, next, ok := ScanStopBits(c)
		o.stopBits = &v
		return next, ok
	}},
	{"TO=", onOffKeyword(func(o *serialOverlay, v bool) { o.timeout = &v })},
	{"XON=", onOffKeyword(func(o *serialOverlay, v bool) { o.xon = &v })},
	{"ODSR=", onOffKeyword(func(o *serialOverlay, v bool) { o.odsr = &v })},
	{"OCTS=", onOffKeyword(func(o *serialOverlay, v bool) { o.octs = &v })},
	{"IDSR=", onOffKeyword(func(o *serialOverlay, v bool) { o.idsr = &v })},
	{"DTR=", func(c Cursor, o *serialOverlay) (Cursor, bool) {
		m, next, ok := ScanMode(c)
		if !ok || m > ModeHandshake {
			return c, false
		}
		v := DTRControl(m)
		o.dtr = &v
		return next, true
	}},
	{"RTS=", func(c Cursor, o *serialOverlay) (Cursor, bool) {
		m, next, ok := ScanMode(c)
		if !ok {
			return c, false
		}
		v := RTSControl(m)
		o.rts = &v
		return next, true
	}},
}

// onOffKeyword builds a parser for keys that only accept ON or OFF.
func onOffKeyword(set func(o *serialOverlay, v bool)) keywordParser {
	return func(c Cursor, o *serialOverlay) (Cursor, bool) {
		m, next, ok := ScanMode(c)
		if !ok || m > ModeOn {
			return c, false
		}
		set(o, m == ModeOn)
		return next, true
	}
}

// BuildNewSerialConfig parses the keyword syntax, e.g.
// "baud=9600 parity=n data=8 stop=1 xon=on to=on". Keys may appear in any
// order, separators are optional, and a repeated key overrides the earlier
// one. Keys that are not mentioned keep their value from current. current
// itself is never modified; on failure it is returned unchanged.
func BuildNewSerialConfig(current SerialState, arg string) (SerialState, error) {
	var o serialOverlay
	c := NewCursor(arg)

	for {
		c = c.SkipSpaces()
		if c.Empty() {
			break
		}

		matched := false
		for _, kw := range serialKeywords {
			next, ok := c.ConsumeFold(kw.key)
			if !ok {
				continue
			}
			if c, ok = kw.parse(next, &o); !ok {
				return current, invalidParameter(arg)
			}
			matched = true
			break
		}
		if !matched {
			return current, invalidParameter(arg)
		}
	}

	return o.merge(current), nil
}

// merge overlays the parsed keys onto a copy of snapshot and applies the
// stop bit default.
func (o *serialOverlay) merge(snapshot SerialState) SerialState {
	st := snapshot
	cfg := &st.Config

	if o.baud != nil {
		cfg.BaudRate = *o.baud
	}
	if o.parity != nil {
		cfg.Parity = *o.parity
	}
	if o.dataBits != nil {
		cfg.DataBits = *o.dataBits
	}
	if o.xon != nil {
		cfg.XonXoff = *o.xon
	}
	if o.odsr != nil {
		cfg.DSRFlow = *o.odsr
	}
	if o.octs != nil {
		cfg.CTSFlow = *o.octs
	}
	if o.idsr != nil {
		cfg.DSRSensitivity = *o.idsr
	}
	if o.dtr != nil {
		cfg.DTR = *o.dtr
	}
	if o.rts != nil {
		cfg.RTS = *o.rts
	}
	if o.timeout != nil {
		var ms uint32
		if *o.timeout {
			ms = totalTimeoutOnMs
		}
		st.Timeouts.ReadTotalMs = ms
		st.Timeouts.WriteTotalMs = ms
	}

	switch {
	case o.stopBits != nil:
		cfg.StopBits = *o.stopBits
	case o.baud != nil:
		cfg.StopBits = defaultStopBits(*o.baud)
	}

	return st
}
