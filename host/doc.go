// Package host is the boundary of the script host.
//
// A Runner loads one script, binds its entry method and executes it on
// demand:
//
//	r, err := host.NewRunner(ctx, host.WithModulePath("/opt/modules"))
//	if err != nil {
//	    return err
//	}
//	defer r.Close(ctx)
//
//	if err := r.LoadScript(ctx, "median/script.js", "RunScript"); err != nil {
//	    return err
//	}
//	if !r.Initialized() {
//	    return r.LoadError()
//	}
//
//	p := host.NewParams()
//	p.SetParam("FilterSize", "11")
//	if err := p.SetImage("WorkImage", w, h, stride, pix); err != nil {
//	    return err
//	}
//	if err := r.Execute(ctx, p); err != nil {
//	    return err
//	}
//	elapsed, err := p.GetResult("Elapsed")
//
// A Runner is not safe for concurrent use. Image buffers are aliased by the
// script for the duration of Execute.
package host
