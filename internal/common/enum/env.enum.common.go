package enum

type EnvEnum string

const (
	LOCAL       EnvEnum = "local"
	DEVELOPMENT EnvEnum = "development"
	STAGING     EnvEnum = "staging"
	PRODUCTION  EnvEnum = "production"
)

func (e EnvEnum) ToString() string {
	if e.IsValid() {
		return string(e)
	}
	return ""
}

func (e EnvEnum) IsValid() bool {
	switch e {
	case LOCAL, DEVELOPMENT, STAGING, PRODUCTION:
		return true
	}
	return false
}

func (e EnvEnum) IsProduction() bool {
	return e == PRODUCTION
}
