// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import "github.com/zeebo/errs"

// Error is the class of every error returned by this package.
var Error = errs.Class("posit")
