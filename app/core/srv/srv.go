package srv

type Srv struct {
	ai *AI
}

type ApplyFunc func(*Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func ApplyAI(cfg AIConfig) ApplyFunc {
	return func(s *Srv) {
		driver, err := SetupAI(cfg)
		if err != nil {
			panic(err)
		}
		s.ai = driver
	}
}

func (s *Srv) AI() *AI {
	return s.ai
}
