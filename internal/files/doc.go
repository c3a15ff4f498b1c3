// Package files locates census snapshot files on disk.
//
// Discovery scans a raw-data directory for snapshot files (.csv, .data,
// .xlsx) and reports them oldest first, so LatestSnapshot picks the most
// recently modified one. Editor lock files ("~$" prefix) and
// subdirectories are ignored.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.RawDir)
//
//	snapshot, ok, err := discovery.LatestSnapshot()
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    return fmt.Errorf("no snapshot files in %s", paths.RawDir)
//	}
package files
