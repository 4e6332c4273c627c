// Package drive evolves steering networks for a car on a 2D track.
//
// A Track is a rectangle of walls with a circular goal. A Vehicle moves at
// constant speed along its heading and senses walls through a fan of ray
// sensors. A Driver feeds the normalized sensor distances through a small
// feed-forward network (package nn) and turns the vehicle by the output
// times a fixed gain. The Trainer runs a population of drivers in lockstep,
// keeps the fittest network of each generation, and stops when a vehicle
// reaches the goal or the best fitness stops changing.
//
// Basic usage:
//
//	config, err := drive.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	track := config.NewTrack(rand.New(rand.NewSource(1)))
//	shape := drive.NetworkShape{Layers: config.Network.Layers, LayerSize: config.Network.LayerSize}
//	trainer, err := drive.NewTrainer(track, config.NewVehicle(), shape, config.TrainerOptions())
//	if err != nil {
//		log.Fatalf("Error creating trainer: %v", err)
//	}
//
//	result, err := trainer.Run(ctx)
//	if err != nil {
//		log.Fatalf("Error training: %v", err)
//	}
//	fmt.Println("Training ended:", result.Outcome)
//
// Session wraps a trainer together with manual driving, track editing and
// persistence of tracks and networks.
package drive
