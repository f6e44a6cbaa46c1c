package mode

// handshake is the trailing "retry" field of the positional syntax.
type handshake uint8

const (
	handshakeNone     handshake = iota
	handshakeSoftware           // X: xon/xoff
	handshakeHardware           // P: CTS/DSR with DTR/RTS handshaking
)

// BuildOldSerialConfig parses the positional syntax
//
//	baud[,[parity][,[databits][,[stopbits][,retry]]]]
//
// e.g. "96,n,8,1,x". Omitted fields take fixed defaults (even parity, seven
// data bits, one stop bit or two at 110 baud, no handshaking) rather than
// the port's current values. Fields this syntax cannot express, such as
// DSR sensitivity and the timeouts, are carried over from current.
func BuildOldSerialConfig(current SerialState, arg string) (SerialState, error) {
	cfg := current.Config
	c := NewCursor(arg).SkipSpaces()

	baud, c, ok := ScanBaud(c)
	if !ok {
		return current, invalidParameter(arg)
	}
	cfg.BaudRate = baud
	cfg.Parity = ParityEven
	cfg.DataBits = 7

	stopGiven := false
	retry := handshakeNone

fields:
	for field := 0; field < 4; field++ {
		var done bool
		c, done, ok = nextField(c)
		if !ok {
			return current, invalidParameter(arg)
		}
		if done {
			break
		}
		if b, _ := c.Peek(); b == ',' && field < 3 {
			continue
		}

		switch field {
		case 0:
			cfg.Parity, c, ok = ScanParity(c)
		case 1:
			cfg.DataBits, c, ok = ScanDataBits(c)
		case 2:
			cfg.StopBits, c, ok = ScanStopBits(c)
			stopGiven = true
		case 3:
			retry, c, ok = scanHandshake(c)
			if ok {
				break fields
			}
		}
		if !ok {
			return current, invalidParameter(arg)
		}
	}

	if !c.SkipSpaces().Empty() {
		return current, invalidParameter(arg)
	}

	switch retry {
	case handshakeNone:
		cfg.XonXoff, cfg.CTSFlow, cfg.DSRFlow = false, false, false
		cfg.DTR, cfg.RTS = DTREnable, RTSEnable
	case handshakeSoftware:
		cfg.XonXoff, cfg.CTSFlow, cfg.DSRFlow = true, false, false
		cfg.DTR, cfg.RTS = DTREnable, RTSEnable
	case handshakeHardware:
		cfg.XonXoff, cfg.CTSFlow, cfg.DSRFlow = false, true, true
		cfg.DTR, cfg.RTS = DTRHandshake, RTSHandshake
	}

	if !stopGiven {
		cfg.StopBits = defaultStopBits(cfg.BaudRate)
	}

	return SerialState{Config: cfg, Timeouts: current.Timeouts}, nil
}

// nextField consumes the comma in front of the next positional field,
// together with the blanks around it. done is set when the text ends
// before another field starts.
func nextField(c Cursor) (next Cursor, done bool, ok bool) {
	c = c.SkipSpaces()
	if c.Empty() {
		return c, true, true
	}
	if c, ok = c.ConsumeByte(','); !ok {
		return c, false, false
	}
	c = c.SkipSpaces()
	return c, c.Empty(), true
}

func scanHandshake(c Cursor) (handshake, Cursor, bool) {
	b, ok := c.Peek()
	if !ok {
		return handshakeNone, c, true
	}
	switch b | 0x20 {
	case 'x':
		return handshakeSoftware, c.Advance(1), true
	case 'p':
		return handshakeHardware, c.Advance(1), true
	}
	return handshakeNone, c, false
}
