package a

type Base struct { // want `reference cycle \[test/a\.Base--handler-->test/a\.Handler, test/a\.Handler--\$super-->test/a\.Service, test/a\.Service--\$super-->test/a\.Base\]`
	handler *Handler
}

type Service struct {
	Base
}

type Handler struct {
	Service
}

type Window struct { // want `reference cycle \[test/a\.Window--frame-->test/a\.Window\$frame, test/a\.Window\$frame--win-->test/a\.Window\]`
	frame struct {
		win *Window
	}
}
