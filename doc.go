//Package densmd turns molecular-dynamics trajectory snapshots into
//per-species 3D density fields and time-averaged point clouds,
//restricted to a rectangular region of interest and, optionally, to a
//slab around a Miller-indexed plane. The package owns the numeric
//pipeline only: trajectory readers live under traj/, and rendering is
//left to an external consumer of the artifacts built here.
package densmd
