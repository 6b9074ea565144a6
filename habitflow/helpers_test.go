package habitflow_test

import (
	"github.com/arthur-debert/habitflow/habitflow/imports"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpIgnoreWarnings = cmpopts.IgnoreFields(imports.Result{}, "Warnings")
