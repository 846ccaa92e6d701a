package hclload

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes every top-level block a declaration file may contain.
type fileRoot struct {
	Models       []*modelBlock      `hcl:"model,block"`
	Parameters   []*bindingsBlock   `hcl:"parameters,block"`
	Compartments []*bindingsBlock   `hcl:"compartments,block"`
	Monomers     []*bindingsBlock   `hcl:"monomers,block"`
	Expressions  []*bindingsBlock   `hcl:"expressions,block"`
	Rules        []*bindingsBlock   `hcl:"rules,block"`
	Initials     []*initialBlock    `hcl:"initial,block"`
	Observables  []*observableBlock `hcl:"observable,block"`
}

// modelBlock names the model and optionally sets its simulation units.
type modelBlock struct {
	Name  string      `hcl:"name,label"`
	Units *unitsBlock `hcl:"units,block"`
}

type unitsBlock struct {
	Concentration *string `hcl:"concentration,optional"`
	Time          *string `hcl:"time,optional"`
	Volume        *string `hcl:"volume,optional"`
}

// bindingsBlock holds free-form name = value attributes. Each block is one
// declaration scope.
type bindingsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type initialBlock struct {
	Pattern string         `hcl:"pattern"`
	Value   hcl.Expression `hcl:"value"`
}

type observableBlock struct {
	Name    *string `hcl:"name,optional"`
	Pattern string  `hcl:"pattern"`
}
